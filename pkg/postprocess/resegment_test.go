package postprocess

import (
	"testing"

	"github.com/bastiangx/lexcore/pkg/dict"
	"github.com/bastiangx/lexcore/pkg/lattice"
	"github.com/bastiangx/lexcore/pkg/viterbi"
)

func TestResegmentFindsAlternateSplit(t *testing.T) {
	d := dict.BuildTrieDictionary(map[string][]dict.Entry{
		"とうきょう": {{Surface: "東京", Cost: 1000}},
		"とう":     {{Surface: "東", Cost: 2000}},
		"きょう":    {{Surface: "京", Cost: 2000}},
	})
	lat := lattice.Build(d, "とうきょう", nil)
	cf := viterbi.NewDefaultCostFunction(nil, 0)

	compound := viterbi.ScoredPath{
		Segments:    []viterbi.RichSegment{{Reading: "とうきょう", Surface: "東京"}},
		ViterbiCost: 1000,
	}
	alternates := Resegment([]viterbi.ScoredPath{compound}, lat, cf)

	found := false
	for _, p := range alternates {
		if p.SurfaceKey() == "東京" && len(p.Segments) == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a 2-segment alternate realizing 東京, got %+v", alternates)
	}
}

func TestResegmentSkipsAlreadySeenBoundaries(t *testing.T) {
	d := dict.BuildTrieDictionary(map[string][]dict.Entry{
		"きょう": {{Surface: "今日", Cost: 1000}},
	})
	lat := lattice.Build(d, "きょう", nil)
	cf := viterbi.NewDefaultCostFunction(nil, 0)
	existing := viterbi.ScoredPath{
		Segments:    []viterbi.RichSegment{{Reading: "きょう", Surface: "今日"}},
		ViterbiCost: 1000,
	}
	alternates := Resegment([]viterbi.ScoredPath{existing}, lat, cf)
	if len(alternates) != 0 {
		t.Fatalf("expected no new alternates for a single-node-only surface, got %+v", alternates)
	}
}
