package lattice

import (
	"testing"

	"github.com/bastiangx/lexcore/pkg/config"
	"github.com/bastiangx/lexcore/pkg/dict"
)

func testDict() dict.Dictionary {
	return dict.BuildTrieDictionary(map[string][]dict.Entry{
		"きょう": {
			{Surface: "今日", Cost: 3000, LeftID: 100, RightID: 100},
			{Surface: "京", Cost: 5000, LeftID: 101, RightID: 101},
		},
		"は": {
			{Surface: "は", Cost: 2000, LeftID: 200, RightID: 200},
		},
		"いい": {
			{Surface: "良い", Cost: 2500, LeftID: 300, RightID: 300},
		},
		"てんき": {
			{Surface: "天気", Cost: 2800, LeftID: 400, RightID: 400},
		},
	})
}

func TestBuildLatticeBasic(t *testing.T) {
	d := testDict()
	lat := Build(d, "きょうは", config.DefaultConfig())

	if len(lat.Nodes) == 0 {
		t.Fatal("expected non-empty lattice")
	}
	if lat.CharCount != 4 {
		t.Fatalf("expected char_count 4, got %d", lat.CharCount)
	}

	var kyouNodes []Node
	for _, n := range lat.Nodes {
		if n.Reading == "きょう" {
			kyouNodes = append(kyouNodes, n)
		}
	}
	if len(kyouNodes) != 2 {
		t.Fatalf("expected 2 きょう nodes, got %d", len(kyouNodes))
	}
	var sawKyou, sawKyo bool
	for _, n := range kyouNodes {
		if n.Surface == "今日" {
			sawKyou = true
		}
		if n.Surface == "京" {
			sawKyo = true
		}
	}
	if !sawKyou || !sawKyo {
		t.Fatalf("expected both 今日 and 京 surfaces, got %+v", kyouNodes)
	}
}

func TestUnknownWordFallback(t *testing.T) {
	d := testDict()
	lat := Build(d, "ぬ", config.DefaultConfig())

	if len(lat.Nodes) == 0 {
		t.Fatal("expected non-empty lattice")
	}
	unknown := lat.Nodes[0]
	if unknown.Reading != "ぬ" || unknown.Surface != "ぬ" {
		t.Fatalf("expected unknown fallback node for ぬ, got %+v", unknown)
	}
	if unknown.Cost != 10000 {
		t.Fatalf("expected default unknown_word_cost 10000, got %d", unknown.Cost)
	}
}

func TestLatticeConnectivity(t *testing.T) {
	d := testDict()
	lat := Build(d, "きょうはいいてんき", config.DefaultConfig())

	for pos := 1; pos <= lat.CharCount; pos++ {
		if len(lat.NodesByEnd[pos]) == 0 {
			t.Fatalf("no nodes end at position %d", pos)
		}
	}
}

func TestNodesByStartEndConsistency(t *testing.T) {
	d := testDict()
	lat := Build(d, "きょうはいいてんき", config.DefaultConfig())

	contains := func(xs []int, v int) bool {
		for _, x := range xs {
			if x == v {
				return true
			}
		}
		return false
	}

	for idx, node := range lat.Nodes {
		if !contains(lat.NodesByStart[node.Start], idx) {
			t.Fatalf("node %d not in nodes_by_start[%d]", idx, node.Start)
		}
		if !contains(lat.NodesByEnd[node.End], idx) {
			t.Fatalf("node %d not in nodes_by_end[%d]", idx, node.End)
		}
	}

	for pos, indices := range lat.NodesByStart {
		for _, idx := range indices {
			if lat.Nodes[idx].Start != pos {
				t.Fatalf("nodes_by_start[%d] contains node %d with start=%d", pos, idx, lat.Nodes[idx].Start)
			}
		}
	}

	for pos, indices := range lat.NodesByEnd {
		for _, idx := range indices {
			if lat.Nodes[idx].End != pos {
				t.Fatalf("nodes_by_end[%d] contains node %d with end=%d", pos, idx, lat.Nodes[idx].End)
			}
		}
	}
}
