package viterbi

import (
	"testing"

	"github.com/bastiangx/lexcore/pkg/conn"
	"github.com/bastiangx/lexcore/pkg/dict"
	"github.com/bastiangx/lexcore/pkg/lattice"
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

func TestNBestUnigramPicksLowestCost(t *testing.T) {
	lat := lattice.Build(testDict(), "きょうはいいてんき", nil)
	cf := NewDefaultCostFunction(nil, 3000)
	paths := NBest(lat, cf, 10)
	if len(paths) == 0 {
		t.Fatal("expected at least one path")
	}
	best := paths[0].IntoSegments()
	var surfaces []string
	for _, s := range best {
		surfaces = append(surfaces, s.Surface)
	}
	want := []string{"今日", "は", "良い", "天気"}
	if len(surfaces) != len(want) {
		t.Fatalf("expected %v, got %v", want, surfaces)
	}
	for i := range want {
		if surfaces[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, surfaces)
		}
	}
}

func TestNBestEmptyInput(t *testing.T) {
	lat := lattice.Build(testDict(), "", nil)
	cf := NewDefaultCostFunction(nil, 3000)
	if paths := NBest(lat, cf, 10); len(paths) != 0 {
		t.Fatalf("expected no paths for empty input, got %d", len(paths))
	}
}

func TestNBestSingleWord(t *testing.T) {
	lat := lattice.Build(testDict(), "きょう", nil)
	cf := NewDefaultCostFunction(nil, 3000)
	paths := NBest(lat, cf, 10)
	if len(paths) == 0 {
		t.Fatal("expected at least one path")
	}
	segs := paths[0].IntoSegments()
	if len(segs) != 1 || segs[0].Surface != "今日" {
		t.Fatalf("expected single 今日 segment, got %+v", segs)
	}
}

func TestNBestUnknownCharFallback(t *testing.T) {
	lat := lattice.Build(testDict(), "ぬ", nil)
	cf := NewDefaultCostFunction(nil, 3000)
	paths := NBest(lat, cf, 10)
	segs := paths[0].IntoSegments()
	if len(segs) != 1 || segs[0].Surface != "ぬ" {
		t.Fatalf("expected fallback segment ぬ, got %+v", segs)
	}
}

func TestNBestWithConnectionCosts(t *testing.T) {
	d := dict.BuildTrieDictionary(map[string][]dict.Entry{
		"きょう": {
			{Surface: "今日", Cost: 5000, LeftID: 10, RightID: 10},
			{Surface: "京", Cost: 4900, LeftID: 20, RightID: 20},
		},
		"は": {
			{Surface: "は", Cost: 2000, LeftID: 30, RightID: 30},
		},
	})

	latUnigram := lattice.Build(d, "きょうは", nil)
	cfUnigram := NewDefaultCostFunction(nil, 0)
	unigramPaths := NBest(latUnigram, cfUnigram, 10)
	if got := unigramPaths[0].IntoSegments()[0].Surface; got != "京" {
		t.Fatalf("expected 京 to win without connection costs, got %s", got)
	}

	numIDs := uint16(31)
	costs := make([]int16, int(numIDs)*int(numIDs))
	costs[20*int(numIDs)+30] = 500
	m := conn.NewOwned(numIDs, 0, 0, nil, costs)

	latBigram := lattice.Build(d, "きょうは", nil)
	cfBigram := NewDefaultCostFunction(m, 0)
	bigramPaths := NBest(latBigram, cfBigram, 10)
	segs := bigramPaths[0].IntoSegments()
	if len(segs) < 2 || segs[0].Surface != "今日" || segs[1].Surface != "は" {
		t.Fatalf("expected 今日+は to win with connection costs, got %+v", segs)
	}
}

func TestNBestTiebreakDeterministic(t *testing.T) {
	d := dict.BuildTrieDictionary(map[string][]dict.Entry{
		"あ": {
			{Surface: "亜", Cost: 5000},
			{Surface: "阿", Cost: 5000},
		},
	})
	lat := lattice.Build(d, "あ", nil)
	cf := NewDefaultCostFunction(nil, 0)
	first := NBest(lat, cf, 10)[0].IntoSegments()[0].Surface
	for i := 0; i < 10; i++ {
		got := NBest(lattice.Build(d, "あ", nil), cf, 10)[0].IntoSegments()[0].Surface
		if got != first {
			t.Fatalf("viterbi tie-breaking must be deterministic: got %s, want %s", got, first)
		}
	}
}
