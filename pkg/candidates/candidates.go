// Package candidates generates ranked conversion candidates from a kana
// reading via pluggable strategies (standard, predictive with bigram
// chaining, neural), all sharing the same response shape so the session
// layer can treat them interchangeably.
package candidates

import (
	"github.com/bastiangx/lexcore/internal/logging"
	"github.com/bastiangx/lexcore/pkg/conn"
	"github.com/bastiangx/lexcore/pkg/convert"
	"github.com/bastiangx/lexcore/pkg/dict"
	"github.com/bastiangx/lexcore/pkg/history"
	"github.com/bastiangx/lexcore/pkg/viterbi"

	"github.com/bastiangx/lexcore/pkg/config"
)

var log = logging.New("candidates")

// Response is the unified output of candidate generation: an ordered,
// deduplicated surface list plus the N-best rich paths backing it, so the
// session layer can learn sub-phrases on confirm.
type Response struct {
	Surfaces []string
	Paths    [][]viterbi.ConvertedSegment
}

// punctuationAlternatives maps a punctuation kana to its alternative glyphs.
var punctuationAlternatives = map[string][]string{
	"。": {"．", "."},
	"、": {"，", ","},
	"？": {"?"},
	"！": {"!"},
	"「": {"｢", "["},
	"」": {"｣", "]"},
	"・": {"／", "/"},
	"〜": {"~"},
}

// isPunctuation reports whether reading triggers the punctuation special
// case, bypassing the conversion pipeline entirely.
func isPunctuation(reading string) bool {
	_, ok := punctuationAlternatives[reading]
	return ok
}

// generatePunctuationCandidates ignores the conversion pipeline: learned
// predictions first, then the reading itself, then its fixed alternatives.
func generatePunctuationCandidates(d dict.Dictionary, h *history.Store, reading string, maxResults int, now int64) Response {
	var surfaces []string
	seen := make(map[string]bool)

	if h != nil {
		fetchLimit := maxResults
		if fetchLimit < 200 {
			fetchLimit = 200
		}
		ranked := h.ReorderScoredCandidates(dict.PredictRanked(d, reading, fetchLimit, 1000), now)
		if len(ranked) > maxResults {
			ranked = ranked[:maxResults]
		}
		for _, e := range ranked {
			if !seen[e.Entry.Surface] {
				seen[e.Entry.Surface] = true
				surfaces = append(surfaces, e.Entry.Surface)
			}
		}
	}

	if !seen[reading] {
		seen[reading] = true
		surfaces = append(surfaces, reading)
	}
	for _, alt := range punctuationAlternatives[reading] {
		if !seen[alt] {
			seen[alt] = true
			surfaces = append(surfaces, alt)
		}
	}

	return Response{Surfaces: surfaces}
}

// surfaceKey joins a rich path's segment surfaces into one string.
func surfaceKey(path []viterbi.ConvertedSegment) string {
	var b []byte
	for _, s := range path {
		b = append(b, s.Surface...)
	}
	return string(b)
}

// GenerateStandard runs N-best Viterbi conversion with history-aware
// reranking (when h is non-nil), injects learned surfaces missing from the
// N-best list, places the raw reading at position 0 or 1 depending on
// whether the user previously chose kana for this reading, then appends
// ranked predictions and dictionary lookups until maxResults.
func GenerateStandard(d dict.Dictionary, m *conn.Matrix, h *history.Store, reading string, maxResults int, now int64, cfg *config.Config) Response {
	if reading == "" {
		return Response{}
	}
	if isPunctuation(reading) {
		return generatePunctuationCandidates(d, h, reading, maxResults, now)
	}
	return generateNormalCandidates(d, m, h, reading, maxResults, now, cfg)
}

func generateNormalCandidates(d dict.Dictionary, m *conn.Matrix, h *history.Store, reading string, maxResults int, now int64, cfg *config.Config) Response {
	var surfaces []string
	seen := make(map[string]bool)

	nbest := cfg.Candidates.NBest
	var paths [][]viterbi.ConvertedSegment
	if h != nil {
		paths = convert.ConvertNBestWithHistory(d, m, h, reading, nbest, now, cfg)
	} else {
		paths = convert.ConvertNBest(d, m, reading, nbest, cfg)
	}

	nbestPaths := make([][]viterbi.ConvertedSegment, 0, len(paths))
	for _, path := range paths {
		joined := surfaceKey(path)
		if joined != "" && !seen[joined] {
			seen[joined] = true
			surfaces = append(surfaces, joined)
		}
		nbestPaths = append(nbestPaths, path)
	}

	if h != nil {
		for _, surface := range h.LearnedSurfaces(reading, now) {
			if !seen[surface] {
				seen[surface] = true
				surfaces = append(surfaces, surface)
			}
		}
	}

	// Kana placement: if the user previously chose the raw reading itself
	// and the current #1 candidate has no unigram boost of its own, kana
	// goes to position 0; otherwise it goes to (or stays at) position 1, so
	// an explicit kanji selection is never displaced by stale kana history.
	var kanaBoost int64
	if h != nil {
		kanaBoost = h.UnigramBoost(reading, reading, now)
	}
	topHasBoost := false
	if h != nil && len(surfaces) > 0 && surfaces[0] != reading {
		topHasBoost = h.UnigramBoost(reading, surfaces[0], now) > 0
	}
	kanaTarget := 1
	if kanaBoost > 0 && !topHasBoost {
		kanaTarget = 0
	}
	kanaPos := -1
	for i, s := range surfaces {
		if s == reading {
			kanaPos = i
			break
		}
	}
	if kanaBoost > 0 {
		if kanaPos != kanaTarget {
			if kanaPos >= 0 {
				surfaces = append(surfaces[:kanaPos], surfaces[kanaPos+1:]...)
			} else {
				seen[reading] = true
			}
			at := kanaTarget
			if at > len(surfaces) {
				at = len(surfaces)
			}
			surfaces = append(surfaces, "")
			copy(surfaces[at+1:], surfaces[at:])
			surfaces[at] = reading
		}
	} else if kanaPos < 0 || kanaPos > 1 {
		if kanaPos >= 0 {
			surfaces = append(surfaces[:kanaPos], surfaces[kanaPos+1:]...)
		} else {
			seen[reading] = true
		}
		at := 1
		if at > len(surfaces) {
			at = len(surfaces)
		}
		surfaces = append(surfaces, "")
		copy(surfaces[at+1:], surfaces[at:])
		surfaces[at] = reading
	}

	fetchLimit := maxResults
	if h != nil && fetchLimit < 200 {
		fetchLimit = 200
	}
	ranked := dict.PredictRanked(d, reading, fetchLimit, cfg.Candidates.ScanLimit)
	if h != nil {
		ranked = h.ReorderScoredCandidates(ranked, now)
		if len(ranked) > maxResults {
			ranked = ranked[:maxResults]
		}
	}
	for _, e := range ranked {
		if e.Entry.Surface != "" && !seen[e.Entry.Surface] {
			seen[e.Entry.Surface] = true
			surfaces = append(surfaces, e.Entry.Surface)
		}
	}

	lookup := d.Lookup(reading)
	if h != nil {
		if len(lookup) > 0 {
			for _, e := range h.ReorderCandidates(reading, lookup, now) {
				if !seen[e.Surface] {
					seen[e.Surface] = true
					surfaces = append(surfaces, e.Surface)
				}
			}
		}
	} else {
		for _, e := range lookup {
			if !seen[e.Surface] {
				seen[e.Surface] = true
				surfaces = append(surfaces, e.Surface)
			}
		}
	}

	log.Debugf("standard candidates: reading=%q surfaces=%d paths=%d", reading, len(surfaces), len(nbestPaths))
	return Response{Surfaces: surfaces, Paths: nbestPaths}
}
