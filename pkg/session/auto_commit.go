package session

import "strings"

// tryAutoCommit fires auto-commit (Standard mode only) once the Viterbi
// #1 path has stabilized: commits an unambiguous prefix while composing
// continues, re-running candidate generation on the remainder.
func (s *InputSession) tryAutoCommit() (KeyResponse, bool) {
	if !s.config.ConversionMode.autoCommitEnabled() {
		return KeyResponse{}, false
	}

	c := s.comp()
	if c.stability.count < 3 {
		return KeyResponse{}, false
	}
	if len(c.candidates.paths) == 0 {
		return KeyResponse{}, false
	}
	bestPath := c.candidates.paths[0]
	if len(bestPath) < 4 {
		return KeyResponse{}, false
	}
	if c.candidates.selected != 0 {
		return KeyResponse{}, false
	}
	if c.pending != "" {
		return KeyResponse{}, false
	}

	commitCount := 1
	if isASCII(bestPath[0].Surface) {
		for commitCount < len(bestPath)-1 && isASCII(bestPath[commitCount].Surface) {
			commitCount++
		}
	}

	segments := bestPath[:commitCount]
	var committedReading, committedSurface string
	for _, seg := range segments {
		committedReading += seg.Reading
		committedSurface += seg.Surface
	}

	if !strings.HasPrefix(c.kana, committedReading) {
		return KeyResponse{}, false
	}

	var segPairs [][2]string
	if commitCount > 1 {
		segPairs = make([][2]string, len(segments))
		for i, seg := range segments {
			segPairs[i] = [2]string{seg.Reading, seg.Surface}
		}
	}

	if committedSurface != committedReading {
		s.historyRecords = append(s.historyRecords, LearningRecord{Reading: committedReading, Surface: committedSurface})
	}
	if segPairs != nil {
		s.historyRecords = append(s.historyRecords, LearningRecord{Segments: segPairs})
	}

	skipRunes := []rune(committedReading)
	kanaRunes := []rune(c.kana)
	c.kana = string(kanaRunes[len(skipRunes):])
	c.stability.reset()

	prefixText := c.prefix.Text
	c.prefix.Text = ""
	c.prefix.HasBoundarySpace = false

	resp := consumed()
	text := prefixText + committedSurface
	resp.Commit = &text
	resp.SideEffects.SaveHistory = true

	switch {
	case c.kana == "":
		c.candidates.clear()
		resp.Candidates = CandidateAction{Kind: CandidatesHide}
		resp.Marked = &MarkedText{}

	case s.config.DeferCandidates:
		var provisional []string
		seen := make(map[string]bool)
		for _, path := range c.candidates.paths {
			if len(path) > commitCount {
				remaining := pathSurface(path[commitCount:])
				if remaining != "" && !seen[remaining] {
					seen[remaining] = true
					provisional = append(provisional, remaining)
				}
			}
		}
		if !seen[c.kana] {
			seen[c.kana] = true
			provisional = append(provisional, c.kana)
		}

		c.candidates.clear()
		c.candidates.surfaces = provisional

		resp.Marked = &MarkedText{Text: provisional[0]}
		resp.AsyncRequest = &AsyncCandidateRequest{Reading: c.kana, DispatchTag: s.config.ConversionMode.candidateDispatchTag()}
		resp.Candidates = CandidateAction{Kind: CandidatesShow, Surfaces: provisional, Selected: 0}

	default:
		dashed := c.submode == SubmodeEnglish
		resp.Marked = &MarkedText{Text: c.displayKana(), Dashed: dashed}
		s.updateCandidates()
		c = s.comp()
		if len(c.candidates.surfaces) > 0 {
			resp.Marked = &MarkedText{Text: c.prefix.Text + c.candidates.surfaces[0], Dashed: dashed}
		}
		if !c.candidates.isEmpty() {
			resp.Candidates = CandidateAction{Kind: CandidatesShow, Surfaces: append([]string(nil), c.candidates.surfaces...), Selected: c.candidates.selected}
		}
	}

	return resp, true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

