// Package postprocess runs the shared N-best pipeline after Viterbi search:
// resegmentation, reranking, rewriters, history boosting, and morpheme
// grouping.
package postprocess

import (
	"github.com/bastiangx/lexcore/internal/logging"
	"github.com/bastiangx/lexcore/pkg/config"
	"github.com/bastiangx/lexcore/pkg/conn"
	"github.com/bastiangx/lexcore/pkg/lattice"
	"github.com/bastiangx/lexcore/pkg/viterbi"
)

var log = logging.New("postprocess")

// Run executes the full pipeline:
//
//	resegment -> rerank -> hiragana-variant -> partial-hiragana ->
//	(preserve viterbi #1) -> history rerank -> truncate(n) ->
//	(re-insert viterbi #1) -> numeric/katakana/kanji-variant -> group
//
// history may be nil, in which case history-dependent steps are skipped.
func Run(paths []viterbi.ScoredPath, lat *lattice.Lattice, m *conn.Matrix, history HistoryBooster, nowEpoch int64, kanaInput string, n int, cfg *config.Config) [][]viterbi.ConvertedSegment {
	log.Debugf("postprocess: paths_in=%d n=%d", len(paths), n)

	costFn := viterbi.NewDefaultCostFunction(m, cfg.Costs.SegmentPenalty)
	reseg := Resegment(paths, lat, costFn)
	paths = append(paths, reseg...)

	paths = Rerank(paths, m, cfg)

	hiragana := HiraganaVariantRewriter{}
	partial := PartialHiraganaRewriter{}
	paths = RunRewriters([]Rewriter{hiragana, partial}, paths, kanaInput)

	var viterbiBestKey string
	haveBestKey := false
	if history != nil && len(paths) > 0 {
		viterbiBestKey = paths[0].SurfaceKey()
		haveBestKey = true
	}

	if history != nil {
		HistoryRerank(paths, history, nowEpoch)
	}

	take := n
	if take > len(paths) {
		take = len(paths)
	}
	top := append([]viterbi.ScoredPath(nil), paths[:take]...)
	rest := append([]viterbi.ScoredPath(nil), paths[take:]...)

	if haveBestKey {
		found := false
		for _, p := range top {
			if p.SurfaceKey() == viterbiBestKey {
				found = true
				break
			}
		}
		if !found {
			for i, p := range rest {
				if p.SurfaceKey() == viterbiBestKey {
					rest = append(rest[:i], rest[i+1:]...)
					insertAt := 1
					if insertAt > len(top) {
						insertAt = len(top)
					}
					top = append(top[:insertAt], append([]viterbi.ScoredPath{p}, top[insertAt:]...)...)
					break
				}
			}
		}
	}

	if len(top) > n {
		top = top[:n]
	}

	numericRW := NumericRewriter{}
	katakanaRW := KatakanaRewriter{}
	kanjiRW := KanjiVariantRewriter{Lattice: lat}
	top = RunRewriters([]Rewriter{numericRW, katakanaRW, kanjiRW}, top, kanaInput)

	if m != nil {
		for i := range top {
			top[i].Segments = GroupSegments(top[i].Segments, m)
		}
	}

	out := make([][]viterbi.ConvertedSegment, len(top))
	for i, p := range top {
		out[i] = p.IntoSegments()
	}
	log.Debugf("postprocess: paths_out=%d", len(out))
	return out
}
