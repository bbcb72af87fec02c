package postprocess

import (
	"github.com/bastiangx/lexcore/pkg/kana"
	"github.com/bastiangx/lexcore/pkg/lattice"
	"github.com/bastiangx/lexcore/pkg/numeric"
	"github.com/bastiangx/lexcore/pkg/viterbi"
)

// Rewriter can add or modify candidates in the N-best list.
type Rewriter interface {
	Rewrite(paths []viterbi.ScoredPath, reading string) []viterbi.ScoredPath
}

// RunRewriters applies every rewriter in sequence, threading the
// (possibly-grown) path list through each.
func RunRewriters(rewriters []Rewriter, paths []viterbi.ScoredPath, reading string) []viterbi.ScoredPath {
	for _, rw := range rewriters {
		paths = rw.Rewrite(paths, reading)
	}
	return paths
}

func worstCost(paths []viterbi.ScoredPath) int64 {
	var worst int64
	for _, p := range paths {
		if p.ViterbiCost > worst {
			worst = p.ViterbiCost
		}
	}
	return worst
}

// KatakanaRewriter appends the reading's katakana form as a low-priority
// fallback candidate, unless it's already present.
type KatakanaRewriter struct{}

func (KatakanaRewriter) Rewrite(paths []viterbi.ScoredPath, reading string) []viterbi.ScoredPath {
	katakana := kana.HiraganaToKatakana(reading)
	for _, p := range paths {
		if p.SurfaceKey() == katakana {
			return paths
		}
	}
	cost := worstCost(paths) + 10000
	return append(paths, viterbi.Single(reading, katakana, cost))
}

// HiraganaVariantRewriter adds the raw hiragana reading as a candidate, at
// the Viterbi #1 cost, so history can later promote it if the user
// previously selected the kana form over a kanji conversion.
type HiraganaVariantRewriter struct{}

func (HiraganaVariantRewriter) Rewrite(paths []viterbi.ScoredPath, reading string) []viterbi.ScoredPath {
	if len(paths) == 0 {
		return paths
	}
	for _, p := range paths {
		if p.SurfaceKey() == reading {
			return paths
		}
	}
	return append(paths, viterbi.Single(reading, reading, paths[0].ViterbiCost))
}

// PartialHiraganaRewriter adds, for each existing path of two or more
// segments, variants where each segment whose surface differs from its
// reading is individually replaced by its hiragana reading (segments that
// are already kana, such as unknown-word fallbacks, are left alone). This expands the pool of forms history can
// learn from without an explosive combinatorial blow-up (one variant per
// segment, not every subset).
type PartialHiraganaRewriter struct{}

func (PartialHiraganaRewriter) Rewrite(paths []viterbi.ScoredPath, reading string) []viterbi.ScoredPath {
	base := make([]viterbi.ScoredPath, len(paths))
	copy(base, paths)
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		seen[p.SurfaceKey()] = true
	}

	for _, p := range base {
		if len(p.Segments) < 2 {
			continue
		}
		for i, seg := range p.Segments {
			if seg.Surface == seg.Reading {
				continue
			}
			variant := make([]viterbi.RichSegment, len(p.Segments))
			copy(variant, p.Segments)
			variant[i].Surface = seg.Reading
			key := surfaceKeyOf(variant)
			if seen[key] {
				continue
			}
			seen[key] = true
			paths = append(paths, viterbi.ScoredPath{Segments: variant, ViterbiCost: p.ViterbiCost})
		}
	}
	return paths
}

func surfaceKeyOf(segments []viterbi.RichSegment) string {
	var b []byte
	for _, s := range segments {
		b = append(b, s.Surface...)
	}
	return string(b)
}

// NumericRewriter adds half-width and full-width digit forms when reading
// parses as a Japanese number word (e.g. さんびゃくよんじゅうご → 345 / ３４５).
type NumericRewriter struct{}

func (NumericRewriter) Rewrite(paths []viterbi.ScoredPath, reading string) []viterbi.ScoredPath {
	n, ok := numeric.ParseJapaneseNumber(reading)
	if !ok {
		return paths
	}
	half := numeric.ToHalfwidth(n)
	full := numeric.ToFullwidth(n)
	cost := worstCost(paths) + 10000

	hasHalf, hasFull := false, false
	for _, p := range paths {
		switch p.SurfaceKey() {
		case half:
			hasHalf = true
		case full:
			hasFull = true
		}
	}
	if !hasHalf {
		paths = append(paths, viterbi.Single(reading, half, cost))
	}
	if !hasFull {
		paths = append(paths, viterbi.Single(reading, full, cost+1))
	}
	return paths
}

// KanjiVariantRewriter adds alternative kanji surface forms found in the
// lattice for the same reading as one of the top path's segments, when the
// lattice offers a surface the path didn't already pick.
type KanjiVariantRewriter struct {
	Lattice *lattice.Lattice
}

func (r KanjiVariantRewriter) Rewrite(paths []viterbi.ScoredPath, reading string) []viterbi.ScoredPath {
	if r.Lattice == nil || len(paths) == 0 {
		return paths
	}
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		seen[p.SurfaceKey()] = true
	}

	base := paths[0]
	for i, seg := range base.Segments {
		for _, idx := range allNodesForSpan(r.Lattice, seg) {
			node := &r.Lattice.Nodes[idx]
			if node.Surface == seg.Surface {
				continue
			}
			variant := make([]viterbi.RichSegment, len(base.Segments))
			copy(variant, base.Segments)
			variant[i] = viterbi.RichSegment{
				Reading: node.Reading, Surface: node.Surface,
				LeftID: node.LeftID, RightID: node.RightID, WordCost: node.Cost,
			}
			key := surfaceKeyOf(variant)
			if seen[key] {
				continue
			}
			seen[key] = true
			paths = append(paths, viterbi.ScoredPath{Segments: variant, ViterbiCost: worstCost(paths) + 10000})
		}
	}
	return paths
}

// allNodesForSpan finds lattice nodes whose reading matches seg's reading,
// at any position in the lattice (node positions are not compared), to
// surface alternative kanji forms of the same word.
func allNodesForSpan(lat *lattice.Lattice, seg viterbi.RichSegment) []int {
	var out []int
	for _, indices := range lat.NodesByStart {
		for _, idx := range indices {
			n := &lat.Nodes[idx]
			if n.Reading == seg.Reading {
				out = append(out, idx)
			}
		}
	}
	return out
}
