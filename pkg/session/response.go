package session

// makeMarkedTextResponse reports the current display with no candidate change.
func (s *InputSession) makeMarkedTextResponse() KeyResponse {
	c := s.comp()
	resp := consumed()
	resp.Marked = &MarkedText{Text: c.display(), Dashed: c.submode == SubmodeEnglish}
	return resp
}

// makeMarkedTextAndCandidatesResponse reports the current display plus the
// candidate panel, then (sync mode) attempts auto-commit, letting its
// result override this one.
func (s *InputSession) makeMarkedTextAndCandidatesResponse() KeyResponse {
	resp := consumed()
	c := s.comp()
	resp.Marked = &MarkedText{Text: c.display(), Dashed: c.submode == SubmodeEnglish}

	if !c.candidates.isEmpty() {
		resp.Candidates = CandidateAction{Kind: CandidatesShow, Surfaces: append([]string(nil), c.candidates.surfaces...), Selected: c.candidates.selected}
	}

	if !s.config.DeferCandidates {
		if autoResp, ok := s.tryAutoCommit(); ok {
			resp = autoResp
		}
	}
	return resp
}

// makeCandidateSelectionResponse reports the panel after pure navigation
// (Arrow keys), with no auto-commit attempt.
func (s *InputSession) makeCandidateSelectionResponse() KeyResponse {
	resp := consumed()
	c := s.comp()
	resp.Marked = &MarkedText{Text: c.display()}
	resp.Candidates = CandidateAction{Kind: CandidatesShow, Surfaces: append([]string(nil), c.candidates.surfaces...), Selected: c.candidates.selected}
	return resp
}
