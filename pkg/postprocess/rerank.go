package postprocess

import (
	"sort"

	"github.com/bastiangx/lexcore/pkg/config"
	"github.com/bastiangx/lexcore/pkg/conn"
	"github.com/bastiangx/lexcore/pkg/viterbi"
)

// Rerank applies post-hoc ranking features on top of the raw Viterbi cost:
// structure cost (sum of transition costs — a proxy for fragmentation),
// length variance (penalizes uneven segment splits for 3+ segment paths),
// and script cost (rewards mixed kanji+kana, penalizes katakana/Latin).
//
// The Viterbi core already handles dictionary + connection + segment-penalty
// costs; these are ranking preferences layered on top, not search-quality
// parameters.
func Rerank(paths []viterbi.ScoredPath, m *conn.Matrix, cfg *config.Config) []viterbi.ScoredPath {
	if len(paths) <= 1 {
		return paths
	}

	structureCosts := make([]int64, len(paths))
	for i, p := range paths {
		var sc int64
		for j := 1; j < len(p.Segments); j++ {
			sc += viterbi.ConnCost(m, p.Segments[j-1].RightID, p.Segments[j].LeftID)
		}
		structureCosts[i] = sc
	}

	minSC := structureCosts[0]
	for _, sc := range structureCosts[1:] {
		if sc < minSC {
			minSC = sc
		}
	}
	threshold := minSC + cfg.Costs.StructureCostFilter

	anyWithin := false
	for _, sc := range structureCosts {
		if sc <= threshold {
			anyWithin = true
			break
		}
	}
	if anyWithin {
		keptPaths := paths[:0:0]
		keptCosts := structureCosts[:0:0]
		for i, sc := range structureCosts {
			if sc <= threshold {
				keptPaths = append(keptPaths, paths[i])
				keptCosts = append(keptCosts, sc)
			}
		}
		paths = keptPaths
		structureCosts = keptCosts
	}
	// else: every path exceeds the threshold — keep all rather than drop everything.

	for i := range paths {
		p := &paths[i]
		structureCost := structureCosts[i]

		p.ViterbiCost += structureCost / 4

		n := len(p.Segments)
		if n >= 3 {
			var sum, sumSq int64
			for _, seg := range p.Segments {
				l := int64(len([]rune(seg.Reading)))
				sum += l
				sumSq += l * l
			}
			nI64 := int64(n)
			sumSqDev := nI64*sumSq - sum*sum
			p.ViterbiCost += sumSqDev * cfg.Costs.LengthVarianceWeight / (nI64 * nI64)
		}

		var totalScript int64
		for _, seg := range p.Segments {
			totalScript += ScriptCost(cfg, seg.Surface, len([]rune(seg.Reading)))
		}
		p.ViterbiCost += totalScript
	}

	sort.SliceStable(paths, func(i, j int) bool { return paths[i].ViterbiCost < paths[j].ViterbiCost })
	return paths
}

// HistoryBooster supplies time-decayed boosts from the user history store.
// Implemented by pkg/history.Store.
type HistoryBooster interface {
	UnigramBoost(reading, surface string, now int64) int64
	BigramBoost(prevSurface, nextReading, nextSurface string, now int64) int64
}

// HistoryRerank subtracts learned unigram/bigram boosts from each path's
// cost and re-sorts. Because it operates on complete paths rather than
// individual lattice nodes, it cannot fragment the lattice the way
// in-Viterbi boosting could.
func HistoryRerank(paths []viterbi.ScoredPath, h HistoryBooster, now int64) {
	if len(paths) == 0 {
		return
	}
	for i := range paths {
		p := &paths[i]
		segCount := int64(len(p.Segments))
		if segCount == 0 {
			segCount = 1
		}
		var segBoost int64
		for _, seg := range p.Segments {
			segBoost += h.UnigramBoost(seg.Reading, seg.Surface, now)
		}
		for j := 1; j < len(p.Segments); j++ {
			prev, next := p.Segments[j-1], p.Segments[j]
			segBoost += h.BigramBoost(prev.Surface, next.Reading, next.Surface, now)
		}
		boost := segBoost / segCount

		var fullReading, fullSurface []byte
		for _, seg := range p.Segments {
			fullReading = append(fullReading, seg.Reading...)
			fullSurface = append(fullSurface, seg.Surface...)
		}
		boost += h.UnigramBoost(string(fullReading), string(fullSurface), now) * 5
		p.ViterbiCost -= boost
	}
	sort.SliceStable(paths, func(i, j int) bool { return paths[i].ViterbiCost < paths[j].ViterbiCost })
}
