package session

// HandleKey is the single entry point a host calls for every keystroke,
// translated into the platform-independent KeyEvent. It dispatches on
// session state (Snippet mode intercepts first, then ABC passthrough, then
// Idle/Composing) and key kind.
func (s *InputSession) HandleKey(event KeyEvent) KeyResponse {
	if s.state.kind == stateSnippet {
		return s.handleSnippetKey(event)
	}

	switch event.Kind {
	case KeySwitchToDirectInput:
		s.abcPassthrough = true
		return consumed()
	case KeySwitchToJapanese:
		s.abcPassthrough = false
		return consumed()
	}

	if s.abcPassthrough {
		return notConsumed()
	}

	switch event.Kind {
	case KeySnippetTrigger:
		return s.enterSnippetMode()
	case KeyText:
		return s.handleTextKey(event.Text, false)
	case KeyRemapped:
		return s.handleTextKey(event.Text, true)
	case KeyEnter:
		return s.handleEnter()
	case KeySpace:
		return s.handleSpace()
	case KeyBackspace:
		return s.handleBackspace()
	case KeyEscape:
		return s.handleEscape()
	case KeyTab:
		return s.handleTab()
	case KeyArrowDown:
		return s.handleArrow(1)
	case KeyArrowUp:
		return s.handleArrow(-1)
	case KeyForwardDelete:
		return s.handleForwardDelete()
	case KeyModifiedKey:
		return s.handleModifiedKey()
	default:
		return notConsumed()
	}
}

func (s *InputSession) clearGhost() {
	if s.ghost.HasText {
		s.ghost.Text = ""
		s.ghost.HasText = false
	}
}

// handleTextKey processes a printable keystroke, starting a composition
// from Idle if none is active.
func (s *InputSession) handleTextKey(text string, remapped bool) KeyResponse {
	s.clearGhost()
	if s.state.kind != stateComposing {
		s.state = sessionState{kind: stateComposing, composing: newComposition(s.idleSubmode)}
	}
	return s.handleComposingText(text, remapped)
}

// handleEnter commits the current composition (or snippet, handled above),
// unconditionally of conversion mode.
func (s *InputSession) handleEnter() KeyResponse {
	if s.state.kind != stateComposing {
		return notConsumed()
	}
	return s.commitCurrentState()
}

// handleSpace cycles the candidate panel forward while composing in
// Japanese submode (every conversion mode); in English submode it is a
// literal space keystroke.
func (s *InputSession) handleSpace() KeyResponse {
	if s.state.kind != stateComposing {
		return notConsumed()
	}

	c := s.comp()
	if c.submode == SubmodeEnglish {
		return s.handleComposingText(" ", false)
	}
	if len(c.candidates.surfaces) == 0 {
		return s.makeMarkedTextResponse()
	}
	c.candidates.selected = cyclicIndex(c.candidates.selected, 1, len(c.candidates.surfaces))
	return s.makeCandidateSelectionResponse()
}

// handleBackspace deletes one unit of input: a pending romaji char, a kana
// rune, a boundary space, or (once kana and pending are empty) a rune of
// the frozen prefix. An empty composition after this collapses to Idle.
func (s *InputSession) handleBackspace() KeyResponse {
	if s.state.kind != stateComposing {
		return notConsumed()
	}
	c := s.comp()

	switch {
	case c.pending != "":
		runes := []rune(c.pending)
		c.pending = string(runes[:len(runes)-1])

	case c.kana != "":
		runes := []rune(c.kana)
		c.kana = string(runes[:len(runes)-1])
		c.candidates.selected = 0
		if s.config.DeferCandidates {
			return s.makeDeferredCandidatesResponse()
		}
		s.updateCandidates()
		return s.makeMarkedTextAndCandidatesResponse()

	case c.prefix.undoBoundarySpace():
		// handled

	case c.prefix.Text != "":
		runes := []rune(c.prefix.Text)
		c.prefix.Text = string(runes[:len(runes)-1])

	default:
		s.resetState()
		return consumed().withMarked("").withHideCandidates()
	}

	if c.kana == "" && c.pending == "" && c.prefix.Text == "" {
		s.resetState()
		return consumed().withMarked("").withHideCandidates()
	}
	return s.makeMarkedTextResponse()
}

// handleEscape clears the candidate panel but keeps the session Composing:
// the host is expected to finalize via its own commitComposition call.
func (s *InputSession) handleEscape() KeyResponse {
	if s.state.kind != stateComposing {
		return notConsumed()
	}
	c := s.comp()
	c.candidates.clear()
	c.stability.reset()
	return consumed().withMarked(c.displayKana()).withHideCandidates()
}

// handleTab dispatches on conversion mode: Standard toggles submode within
// the composition, freezing the selected surface into the prefix;
// Predictive/GhostText commit. From Idle with ghost text pending, Tab
// accepts it as a commit and requests the next continuation.
func (s *InputSession) handleTab() KeyResponse {
	if s.state.kind != stateComposing {
		if s.config.ConversionMode == ModeGhostText && s.ghost.HasText {
			return s.acceptGhostText()
		}
		if s.config.ConversionMode.tabAction() == tabToggleSubmode {
			if s.idleSubmode == SubmodeJapanese {
				s.idleSubmode = SubmodeEnglish
			} else {
				s.idleSubmode = SubmodeJapanese
			}
			return consumed()
		}
		return notConsumed()
	}

	if s.config.ConversionMode.tabAction() == tabCommit {
		return s.commitCurrentState()
	}
	return s.toggleSubmode()
}

// acceptGhostText commits the held ghost suggestion and requests a fresh
// continuation against the extended committed context.
func (s *InputSession) acceptGhostText() KeyResponse {
	text := s.ghost.Text
	s.ghost.Text = ""
	s.ghost.HasText = false
	s.committedContext += text

	resp := consumed()
	resp.Commit = &text
	s.ghost.Generation++
	resp.GhostRequest = &AsyncGhostRequest{Context: s.committedContext, Generation: s.ghost.Generation}
	return resp
}

// toggleSubmode crystallizes the currently selected surface (or raw kana)
// into the frozen prefix and switches Japanese<->English within the live
// composition, inserting a programmer-mode boundary space at the seam.
func (s *InputSession) toggleSubmode() KeyResponse {
	c := s.comp()
	current := c.submode
	next := SubmodeJapanese
	if current == SubmodeJapanese {
		next = SubmodeEnglish
	}

	if c.pending != "" {
		s.flush()
		c = s.comp()
	}

	c.prefix.undoBoundarySpace()

	if current == SubmodeJapanese {
		if c.candidates.selected < len(c.candidates.surfaces) {
			reading := c.kana
			surface := c.candidates.surfaces[c.candidates.selected]
			s.recordHistory(reading, surface)
			c.prefix.pushStr(surface)
		} else {
			c.prefix.pushStr(c.kana)
		}
	} else {
		c.prefix.pushStr(c.kana)
	}

	c.kana = ""
	c.pending = ""
	c.candidates.clear()
	c.stability.reset()
	c.prefix.HasBoundarySpace = false

	if s.config.ProgrammerMode && c.prefix.Text != "" {
		runes := []rune(c.prefix.Text)
		last := runes[len(runes)-1]
		lastIsASCII := last < 0x80
		shouldInsert := (current == SubmodeJapanese && next == SubmodeEnglish && !lastIsASCII) ||
			(current == SubmodeEnglish && next == SubmodeJapanese && lastIsASCII && last != ' ')
		if shouldInsert {
			c.prefix.Text += " "
			c.prefix.HasBoundarySpace = true
		}
	}

	c.submode = next

	resp := consumed()
	if display := c.display(); display != "" {
		resp.Marked = &MarkedText{Text: display, Dashed: next == SubmodeEnglish}
	}
	resp.Candidates = CandidateAction{Kind: CandidatesHide}
	if len(s.historyRecords) > 0 {
		resp.SideEffects.SaveHistory = true
	}
	return resp
}

// handleArrow moves the candidate selection cursor by delta, wrapping.
func (s *InputSession) handleArrow(delta int) KeyResponse {
	if s.state.kind != stateComposing {
		return notConsumed()
	}
	c := s.comp()
	if len(c.candidates.surfaces) == 0 {
		return s.makeMarkedTextResponse()
	}
	c.candidates.selected = cyclicIndex(c.candidates.selected, delta, len(c.candidates.surfaces))
	return s.makeCandidateSelectionResponse()
}

// handleForwardDelete removes the learned history behind the currently
// selected candidate and regenerates the panel without it.
func (s *InputSession) handleForwardDelete() KeyResponse {
	if s.state.kind != stateComposing {
		return notConsumed()
	}
	c := s.comp()
	if len(c.candidates.surfaces) == 0 || c.candidates.selected >= len(c.candidates.surfaces) {
		return s.makeMarkedTextResponse()
	}

	reading := c.kana
	surface := c.candidates.surfaces[c.candidates.selected]
	segments := c.findMatchingPath(surface)
	if segments == nil {
		segments = [][2]string{{reading, surface}}
	}
	s.historyRecords = append(s.historyRecords, LearningRecord{Deletion: true, Segments: segments})

	s.updateCandidates()
	resp := s.makeMarkedTextAndCandidatesResponse()
	resp.SideEffects.SaveHistory = true
	return resp
}

// handleModifiedKey commits the composing state (if any) but reports the
// key as unconsumed, so a Cmd/Ctrl/Alt-modified keystroke still reaches
// the host application's own shortcut handling.
func (s *InputSession) handleModifiedKey() KeyResponse {
	if s.state.kind != stateComposing {
		return notConsumed()
	}
	resp := s.commitCurrentState()
	resp.Consumed = false
	return resp
}
