package session

import (
	"time"

	"github.com/bastiangx/lexcore/pkg/conn"
	"github.com/bastiangx/lexcore/pkg/config"
	"github.com/bastiangx/lexcore/pkg/dict"
	"github.com/bastiangx/lexcore/pkg/history"
)

// InputSession owns the per-editor state for one conversion session: the
// shared dictionary/connection-matrix/history collaborators, the current
// Idle/Composing/Snippet state, and the config toggles that shape how
// keystrokes are handled.
type InputSession struct {
	dict         dict.Dictionary
	conn         *conn.Matrix
	history      *history.Store
	snippetStore SnippetStore
	cfg          *config.Config
	nowFn        func() int64

	state sessionState

	config         SessionConfig
	idleSubmode    Submode
	abcPassthrough bool

	committedContext string
	historyRecords   []LearningRecord
	ghost            GhostState
}

// NewInputSession constructs a session over a dictionary, an optional
// connection matrix (nil disables Viterbi bigram scoring), an optional
// history store (nil disables frequency rerank and learning), and an
// optional snippet store (nil disables KeySnippetTrigger). cfg supplies the
// scoring/threshold knobs candidate generation reads; nowFn supplies the
// current epoch time (injectable for deterministic tests).
func NewInputSession(d dict.Dictionary, m *conn.Matrix, h *history.Store, snippets SnippetStore, cfg *config.Config, nowFn func() int64) *InputSession {
	if nowFn == nil {
		nowFn = defaultNowFn
	}
	return &InputSession{
		dict:         d,
		conn:         m,
		history:      h,
		snippetStore: snippets,
		cfg:          cfg,
		nowFn:        nowFn,
		state:        sessionState{kind: stateIdle},
	}
}

// comp returns the live Composition. Callers only reach it from code paths
// already guarded by a Composing check; it panics otherwise rather than
// silently operating on nil state.
func (s *InputSession) comp() *Composition {
	if s.state.kind != stateComposing {
		panic("session: comp() called outside Composing state")
	}
	return s.state.composing
}

func (s *InputSession) Submode() Submode {
	if s.state.kind == stateComposing {
		return s.state.composing.submode
	}
	return s.idleSubmode
}

func (s *InputSession) SetDeferCandidates(enabled bool) { s.config.DeferCandidates = enabled }

func (s *InputSession) SetConversionMode(mode ConversionMode) { s.config.ConversionMode = mode }

func (s *InputSession) SetProgrammerMode(enabled bool) { s.config.ProgrammerMode = enabled }

func (s *InputSession) IsABCPassthrough() bool { return s.abcPassthrough }

func (s *InputSession) SetABCPassthrough(enabled bool) { s.abcPassthrough = enabled }

// IsComposing reports whether the session holds any active overlay state —
// a live composition or an open snippet filter — as opposed to Idle.
func (s *InputSession) IsComposing() bool { return s.state.kind != stateIdle }

// ComposedString is the current marked-text display, empty when Idle or
// filtering a snippet (snippet display is the filter text, reported via the
// response's Marked field, not this inspector).
func (s *InputSession) ComposedString() string {
	if s.state.kind != stateComposing {
		return ""
	}
	return s.state.composing.display()
}

func (s *InputSession) CommittedContext() string { return s.committedContext }

// TakeHistoryRecords drains the learning records accumulated since the last
// call, for the host to persist against its history store.
func (s *InputSession) TakeHistoryRecords() []LearningRecord {
	records := s.historyRecords
	s.historyRecords = nil
	return records
}

// HasGhostText reports whether an accepted-but-unconsumed ghost suggestion
// is currently held (used by hosts to decide whether to invalidate pending
// ghost work after a key event clears it).
func (s *InputSession) HasGhostText() bool { return s.ghost.HasText }

// Commit finalizes whatever is active, as the host-invoked "finalize on
// focus loss" entry point: a live composition goes through the same
// commitCurrentState path as Enter (which falls back to a verbatim
// prefix+kana commit when nothing is selectable), an open snippet filter is
// cancelled, and Idle yields a no-op consumed response.
func (s *InputSession) Commit() KeyResponse {
	switch s.state.kind {
	case stateComposing:
		return s.commitCurrentState()
	case stateSnippet:
		return s.snippetCancel()
	default:
		return consumed()
	}
}

// ReceiveGhostText applies an asynchronously generated ghost-text
// continuation. Returns false if stale (generation mismatch) or if the
// session is composing (ghost text only displays while Idle).
func (s *InputSession) ReceiveGhostText(generation uint64, text string) (KeyResponse, bool) {
	if s.config.ConversionMode != ModeGhostText {
		return KeyResponse{}, false
	}
	if s.state.kind == stateComposing {
		return KeyResponse{}, false
	}
	if generation != s.ghost.Generation {
		return KeyResponse{}, false
	}
	s.ghost.Text = text
	s.ghost.HasText = text != ""
	return consumed(), true
}

func defaultNowFn() int64 { return time.Now().Unix() }
