package session

import (
	"strings"

	"github.com/bastiangx/lexcore/pkg/romaji"
)

// handleComposingText processes one Text/Remapped keystroke while Composing.
// directCommitFallback is set for KeyRemapped: when the romaji trie has no
// match at all for an otherwise-romaji keystroke (a JIS yen key remapped to
// backslash, say), commit the current composition and pass the raw
// character through verbatim instead of stashing it in kana.
func (s *InputSession) handleComposingText(text string, directCommitFallback bool) KeyResponse {
	c := s.comp()

	// English submode: printable ASCII goes straight into kana, no romaji
	// conversion.
	if c.submode == SubmodeEnglish {
		if text != "" {
			v := text[0]
			if v >= 0x20 && v < 0x7F {
				c.prefix.HasBoundarySpace = false
				c.kana += text
				return s.makeMarkedTextResponse()
			}
		}
		return consumed()
	}

	// z-sequences: mid-composition, pending+text may extend a multi-char
	// trie entry (e.g. "z" + "." -> "…").
	if c.pending != "" {
		candidate := c.pending + text
		lr := romaji.Global().Lookup(candidate)
		if lr.Kind != romaji.None {
			return s.appendAndConvert(text)
		}
	}

	if isRomajiInput(text) {
		if directCommitFallback && c.pending == "" {
			if lr := romaji.Global().Lookup(strings.ToLower(text)); lr.Kind == romaji.None {
				resp := s.commitCurrentState()
				joined := text
				if resp.Commit != nil {
					joined = *resp.Commit + text
				}
				resp.Commit = &joined
				return resp
			}
		}

		// A non-default candidate is selected: commit it first, then start
		// fresh composing on the new keystroke.
		if c.candidates.selected > 0 && c.candidates.selected < len(c.candidates.surfaces) {
			commitResp := s.commitCurrentState()
			s.state = sessionState{kind: stateComposing, composing: newComposition(SubmodeJapanese)}
			appendResp := s.appendAndConvert(strings.ToLower(text))
			return commitResp.withDisplayFrom(appendResp)
		}
		return s.appendAndConvert(strings.ToLower(text))
	}

	// Direct trie match for non-romaji characters: punctuation auto-commits.
	lr := romaji.Global().Lookup(text)
	if lr.HasKana() {
		resp := s.commitCurrentState()
		result := romaji.Convert("", text, true)
		if result.ComposedKana != "" {
			if resp.Commit != nil {
				joined := *resp.Commit + result.ComposedKana
				resp.Commit = &joined
			} else {
				t := result.ComposedKana
				resp.Commit = &t
			}
		}
		return resp
	}

	// Unrecognized non-romaji character: keep it in kana rather than
	// discarding the keystroke.
	c = s.comp()
	c.kana += text
	if s.config.DeferCandidates {
		return s.makeDeferredCandidatesResponse()
	}
	s.updateCandidates()
	return s.makeMarkedTextAndCandidatesResponse()
}

func (s *InputSession) appendAndConvert(input string) KeyResponse {
	c := s.comp()
	if len(c.kana) >= maxComposedKanaLength {
		resp := s.commitComposed()
		s.state = sessionState{kind: stateComposing, composing: newComposition(SubmodeJapanese)}
		c = s.comp()
		c.pending += input
		s.drainPending(false)
		var subResp KeyResponse
		if s.config.DeferCandidates {
			subResp = s.makeDeferredCandidatesResponse()
		} else {
			if s.comp().pending == "" {
				s.updateCandidates()
			}
			subResp = s.makeMarkedTextAndCandidatesResponse()
		}
		return resp.withDisplayFrom(subResp)
	}

	c.prefix.HasBoundarySpace = false
	c.pending += input
	s.drainPending(false)

	if s.config.DeferCandidates {
		if s.comp().pending == "" {
			return s.makeDeferredCandidatesResponse()
		}
		return s.makeMarkedTextResponse()
	}

	if s.comp().pending == "" {
		s.updateCandidates()
	}
	return s.makeMarkedTextAndCandidatesResponse()
}

// drainPending converts pending romaji against kana in place.
func (s *InputSession) drainPending(force bool) {
	c := s.comp()
	result := romaji.Convert(c.kana, c.pending, force)
	c.kana = result.ComposedKana
	c.pending = result.PendingRomaji
}

// flush force-drains any incomplete romaji sequence.
func (s *InputSession) flush() {
	s.drainPending(true)
}
