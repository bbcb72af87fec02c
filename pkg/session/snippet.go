package session

import "regexp"

// SnippetStore is the collaborator backing snippet mode: a prefix-filterable
// list of (trigger key, body) pairs, plus the variables available for
// $name / ${name} expansion on confirm.
type SnippetStore interface {
	AllEntries() []SnippetEntry
	PrefixSearch(filter string) []SnippetEntry
	Variables() map[string]string
}

var snippetVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// resolveSnippetVariables expands $name and ${name} references against vars,
// leaving unknown references untouched.
func resolveSnippetVariables(body string, vars map[string]string) string {
	if vars == nil {
		return body
	}
	return snippetVarPattern.ReplaceAllStringFunc(body, func(match string) string {
		sub := snippetVarPattern.FindStringSubmatch(match)
		name := sub[1]
		if name == "" {
			name = sub[2]
		}
		if v, ok := vars[name]; ok {
			return v
		}
		return match
	})
}

func snippetSurfaces(matches []SnippetEntry) []string {
	surfaces := make([]string, len(matches))
	for i, m := range matches {
		surfaces[i] = m.Key + "\t" + m.Body
	}
	return surfaces
}

// enterSnippetMode switches into snippet filtering, committing any active
// composition first. Without a configured store this mirrors ModifiedKey:
// commit but don't consume, so the trigger key still reaches the host.
func (s *InputSession) enterSnippetMode() KeyResponse {
	if s.snippetStore == nil {
		if s.state.kind == stateSnippet {
			return s.snippetCancelPassthrough()
		}
		if s.state.kind == stateComposing {
			resp := s.commitCurrentState()
			resp.Consumed = false
			return resp
		}
		return notConsumed()
	}

	var baseResp KeyResponse
	if s.state.kind == stateComposing {
		baseResp = s.commitCurrentState()
	} else {
		baseResp = consumed()
	}

	matches := s.snippetStore.AllEntries()
	surfaces := snippetSurfaces(matches)

	s.state = sessionState{kind: stateSnippet, snippet: &SnippetState{matches: matches}}

	baseResp.Marked = &MarkedText{}
	if len(surfaces) == 0 {
		baseResp.Candidates = CandidateAction{Kind: CandidatesHide}
	} else {
		baseResp.Candidates = CandidateAction{Kind: CandidatesShow, Surfaces: surfaces, Selected: 0}
	}
	return baseResp
}

func (s *InputSession) handleSnippetKey(event KeyEvent) KeyResponse {
	switch event.Kind {
	case KeyText, KeyRemapped:
		return s.snippetFilterAppend(event.Text)
	case KeyBackspace:
		return s.snippetFilterPop()
	case KeyEnter, KeySpace:
		return s.snippetConfirm()
	case KeyArrowDown:
		return s.snippetNavigate(1)
	case KeyArrowUp:
		return s.snippetNavigate(-1)
	case KeyEscape:
		return s.snippetCancel()
	default:
		return s.snippetCancelPassthrough()
	}
}

func (s *InputSession) snippetFilterAppend(text string) KeyResponse {
	if s.snippetStore == nil {
		return s.snippetCancelPassthrough()
	}
	snip := s.state.snippet
	snip.filter += text
	snip.matches = s.snippetStore.PrefixSearch(snip.filter)
	snip.selected = 0
	return buildSnippetResponse(snip)
}

func (s *InputSession) snippetFilterPop() KeyResponse {
	if s.snippetStore == nil {
		return s.snippetCancelPassthrough()
	}
	snip := s.state.snippet
	if snip.filter == "" {
		return s.snippetCancel()
	}
	runes := []rune(snip.filter)
	snip.filter = string(runes[:len(runes)-1])
	snip.matches = s.snippetStore.PrefixSearch(snip.filter)
	snip.selected = 0
	return buildSnippetResponse(snip)
}

func (s *InputSession) snippetConfirm() KeyResponse {
	if s.snippetStore == nil {
		return s.snippetCancelPassthrough()
	}
	snip := s.state.snippet
	if len(snip.matches) == 0 {
		return s.snippetCancel()
	}

	body := resolveSnippetVariables(snip.matches[snip.selected].Body, s.snippetStore.Variables())
	s.committedContext += body
	s.resetState()

	resp := consumed().withHideCandidates()
	resp.Marked = &MarkedText{}
	resp.Commit = &body
	return resp
}

func (s *InputSession) snippetNavigate(delta int) KeyResponse {
	if s.snippetStore == nil {
		return s.snippetCancelPassthrough()
	}
	snip := s.state.snippet
	if len(snip.matches) == 0 {
		return consumed()
	}
	snip.selected = cyclicIndex(snip.selected, delta, len(snip.matches))
	return buildSnippetResponse(snip)
}

func (s *InputSession) snippetCancel() KeyResponse {
	s.resetState()
	return consumed().withMarked("").withHideCandidates()
}

// snippetCancelPassthrough cancels snippet mode without consuming the key,
// so it still reaches the host application.
func (s *InputSession) snippetCancelPassthrough() KeyResponse {
	s.resetState()
	r := notConsumed()
	r.Marked = &MarkedText{}
	r.Candidates = CandidateAction{Kind: CandidatesHide}
	return r
}

func buildSnippetResponse(snip *SnippetState) KeyResponse {
	resp := consumed().withMarked(snip.filter)
	surfaces := snippetSurfaces(snip.matches)
	if len(surfaces) == 0 {
		resp.Candidates = CandidateAction{Kind: CandidatesHide}
	} else {
		resp.Candidates = CandidateAction{Kind: CandidatesShow, Surfaces: surfaces, Selected: snip.selected}
	}
	return resp
}
