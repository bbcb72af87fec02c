package postprocess

import (
	"testing"

	"github.com/bastiangx/lexcore/pkg/viterbi"
)

func TestKatakanaRewriterAddsCandidate(t *testing.T) {
	rw := KatakanaRewriter{}
	paths := []viterbi.ScoredPath{
		{
			Segments:    []viterbi.RichSegment{{Reading: "きょう", Surface: "今日", LeftID: 10, RightID: 10}},
			ViterbiCost: 3000,
		},
	}

	paths = rw.Rewrite(paths, "きょう")

	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(paths))
	}
	if paths[1].SurfaceKey() != "キョウ" {
		t.Fatalf("expected キョウ, got %s", paths[1].SurfaceKey())
	}
	if paths[1].ViterbiCost != 3000+10000 {
		t.Fatalf("expected cost 13000, got %d", paths[1].ViterbiCost)
	}
}

func TestKatakanaRewriterSkipsDuplicate(t *testing.T) {
	rw := KatakanaRewriter{}
	paths := []viterbi.ScoredPath{
		{
			Segments:    []viterbi.RichSegment{{Reading: "きょう", Surface: "キョウ"}},
			ViterbiCost: 5000,
		},
	}

	paths = rw.Rewrite(paths, "きょう")

	if len(paths) != 1 {
		t.Fatalf("should not add duplicate katakana candidate, got %d paths", len(paths))
	}
}

func TestKatakanaRewriterEmptyPaths(t *testing.T) {
	rw := KatakanaRewriter{}
	var paths []viterbi.ScoredPath

	paths = rw.Rewrite(paths, "てすと")

	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(paths))
	}
	if paths[0].SurfaceKey() != "テスト" {
		t.Fatalf("expected テスト, got %s", paths[0].SurfaceKey())
	}
	if paths[0].ViterbiCost != 10000 {
		t.Fatalf("expected cost 10000, got %d", paths[0].ViterbiCost)
	}
}

func TestRunRewritersAppliesAll(t *testing.T) {
	rw := KatakanaRewriter{}
	paths := []viterbi.ScoredPath{
		{Segments: []viterbi.RichSegment{{Reading: "あ", Surface: "亜"}}, ViterbiCost: 1000},
	}

	paths = RunRewriters([]Rewriter{rw}, paths, "あ")

	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(paths))
	}
	if paths[1].SurfaceKey() != "ア" {
		t.Fatalf("expected ア, got %s", paths[1].SurfaceKey())
	}
}

func TestHiraganaVariantRewriterAddsReading(t *testing.T) {
	rw := HiraganaVariantRewriter{}
	paths := []viterbi.ScoredPath{
		{Segments: []viterbi.RichSegment{{Reading: "きょう", Surface: "今日"}}, ViterbiCost: 3000},
	}
	paths = rw.Rewrite(paths, "きょう")
	if len(paths) != 2 || paths[1].SurfaceKey() != "きょう" {
		t.Fatalf("expected hiragana variant appended, got %+v", paths)
	}
	if paths[1].ViterbiCost != 3000 {
		t.Fatalf("expected hiragana variant cost to match viterbi #1, got %d", paths[1].ViterbiCost)
	}
}

func TestNumericRewriterAddsDigitForms(t *testing.T) {
	rw := NumericRewriter{}
	paths := []viterbi.ScoredPath{
		{Segments: []viterbi.RichSegment{{Reading: "さんびゃくよんじゅうご", Surface: "三百四十五"}}, ViterbiCost: 4000},
	}
	paths = rw.Rewrite(paths, "さんびゃくよんじゅうご")
	if len(paths) != 3 {
		t.Fatalf("expected original + half + full width forms, got %d paths", len(paths))
	}
	if paths[1].SurfaceKey() != "345" {
		t.Fatalf("expected halfwidth 345, got %s", paths[1].SurfaceKey())
	}
}

func TestNumericRewriterSkipsNonNumeric(t *testing.T) {
	rw := NumericRewriter{}
	paths := []viterbi.ScoredPath{
		{Segments: []viterbi.RichSegment{{Reading: "きょう", Surface: "今日"}}, ViterbiCost: 3000},
	}
	out := rw.Rewrite(paths, "きょう")
	if len(out) != 1 {
		t.Fatalf("expected no candidates added for non-numeric reading, got %d", len(out))
	}
}
