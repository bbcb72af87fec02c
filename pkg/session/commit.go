package session

// commitComposed commits prefix+kana verbatim (no candidate selection),
// used for the forced commit when the kana buffer reaches
// maxComposedKanaLength.
func (s *InputSession) commitComposed() KeyResponse {
	resp := consumed()
	c := s.comp()
	text := c.prefix.Text + c.kana
	if text != "" {
		resp.Commit = &text
	} else {
		resp.Marked = &MarkedText{}
	}
	s.resetState()
	return resp
}

// commitCurrentState finalizes the current composition: selected candidate
// (or raw kana if nothing usable is selected), records history, accumulates
// committed context, and (GhostText mode) requests a ghost-text continuation.
func (s *InputSession) commitCurrentState() KeyResponse {
	if s.state.kind != stateComposing {
		return consumed()
	}
	c := s.state.composing

	resp := consumed()
	resp.Candidates = CandidateAction{Kind: CandidatesHide}
	s.flush()
	c = s.state.composing

	prefixText := c.prefix.Text
	c.prefix.Text = ""

	if c.candidates.selected < len(c.candidates.surfaces) {
		reading := c.kana
		surface := c.candidates.surfaces[c.candidates.selected]

		s.recordHistory(reading, surface)
		text := prefixText + surface
		resp.Commit = &text
	} else if c.kana != "" || prefixText != "" {
		text := prefixText + c.kana
		resp.Commit = &text
	} else {
		resp.Marked = &MarkedText{}
	}

	if resp.Commit != nil {
		s.committedContext += *resp.Commit
	}

	if s.config.ConversionMode == ModeGhostText && resp.Commit != nil {
		s.ghost.Generation++
		resp.GhostRequest = &AsyncGhostRequest{Context: s.committedContext, Generation: s.ghost.Generation}
	}

	s.resetState()
	return resp
}

// recordHistory pushes a Committed learning record for reading/surface,
// plus sub-phrase segment pairs when the confirmed surface matches a
// multi-segment N-best path.
func (s *InputSession) recordHistory(reading, surface string) {
	if s.history == nil {
		return
	}
	var segments [][2]string
	if s.state.kind == stateComposing {
		segments = s.state.composing.findMatchingPath(surface)
	}
	s.historyRecords = append(s.historyRecords, LearningRecord{
		Reading:  reading,
		Surface:  surface,
		Segments: segments,
	})
}

func (s *InputSession) resetState() {
	s.state = sessionState{kind: stateIdle}
}
