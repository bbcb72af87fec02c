// Package session implements the stateful IME session: composition,
// romaji drain, candidate selection, auto-commit, and key dispatch. It owns
// the current editing state and turns each keystroke into a response the
// host translates into marked-text and commit calls.
package session

import "github.com/bastiangx/lexcore/internal/logging"

var log = logging.New("session")

// KeyKind discriminates the platform-independent key events a host
// translates its native key events into before calling HandleKey.
type KeyKind uint8

const (
	KeyText KeyKind = iota
	// KeyRemapped is like KeyText but falls back to a direct commit when the
	// romaji trie doesn't match at all (e.g. a JIS-keyboard yen key remapped
	// to backslash).
	KeyRemapped
	KeyEnter
	KeySpace
	KeyBackspace
	KeyEscape
	KeyTab
	KeyArrowDown
	KeyArrowUp
	// KeySwitchToDirectInput is the 英数 key on macOS / Fcitx5 deactivate.
	KeySwitchToDirectInput
	// KeySwitchToJapanese is the かな key on macOS / Fcitx5 activate.
	KeySwitchToJapanese
	// KeyForwardDelete deletes the learned history behind the selected candidate.
	KeyForwardDelete
	// KeyModifiedKey is a Cmd/Ctrl/Alt-modified key: commit composing state
	// but don't consume, so the modified keystroke still reaches the host app.
	KeyModifiedKey
	// KeySnippetTrigger enters snippet mode.
	KeySnippetTrigger
)

// KeyEvent is the platform-independent key event HandleKey dispatches on.
type KeyEvent struct {
	Kind  KeyKind
	Text  string
	Shift bool
}

func TextEvent(s string) KeyEvent    { return KeyEvent{Kind: KeyText, Text: s} }
func RemappedEvent(s string) KeyEvent { return KeyEvent{Kind: KeyRemapped, Text: s} }

// isRomajiInput reports whether text should be treated as an ASCII romaji
// keystroke rather than a direct-commit punctuation character.
func isRomajiInput(text string) bool {
	if text == "-" {
		return true
	}
	if text == "" {
		return false
	}
	c := text[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func cyclicIndex(current int, delta int, count int) int {
	if count == 0 {
		return 0
	}
	n := current + delta
	n %= count
	if n < 0 {
		n += count
	}
	return n
}

// MarkedText is the composing-text overlay the host renders at the cursor.
type MarkedText struct {
	Text string
	// Dashed renders as an underline style; set while composing in English submode.
	Dashed bool
}

// CandidateActionKind discriminates the three candidate-panel actions.
type CandidateActionKind uint8

const (
	CandidatesKeep CandidateActionKind = iota
	CandidatesShow
	CandidatesHide
)

// CandidateAction is the candidate-panel action accompanying a response:
// exactly one of Keep/Show/Hide, making the old show/hide bool pair's
// invalid both-true combination unrepresentable.
type CandidateAction struct {
	Kind     CandidateActionKind
	Surfaces []string
	Selected int
}

// AsyncCandidateRequest asks the host to run candidate generation off the
// synchronous keystroke path. DispatchTag is 0=standard, 1=predictive,
// 2=neural, matching candidates.StrategyKind.
type AsyncCandidateRequest struct {
	Reading     string
	DispatchTag uint8
}

// AsyncGhostRequest asks the host's neural worker to produce a ghost-text
// continuation for the accumulated committed context.
type AsyncGhostRequest struct {
	Context    string
	Generation uint64
}

// SideEffects are side effects the host must perform alongside a response.
type SideEffects struct {
	SaveHistory bool
	SwitchToABC bool
}

// KeyResponse is the result of HandleKey/Commit/ReceiveCandidates/
// ReceiveGhostText: every event returns one, so errors never propagate out
// of the key-handling path.
type KeyResponse struct {
	Consumed     bool
	Commit       *string
	Marked       *MarkedText
	Candidates   CandidateAction
	AsyncRequest *AsyncCandidateRequest
	GhostRequest *AsyncGhostRequest
	SideEffects  SideEffects
}

func notConsumed() KeyResponse {
	return KeyResponse{Consumed: false, Candidates: CandidateAction{Kind: CandidatesKeep}}
}

func consumed() KeyResponse {
	return KeyResponse{Consumed: true, Candidates: CandidateAction{Kind: CandidatesKeep}}
}

func (r KeyResponse) withMarked(text string) KeyResponse {
	r.Marked = &MarkedText{Text: text}
	return r
}

func (r KeyResponse) withHideCandidates() KeyResponse {
	r.Candidates = CandidateAction{Kind: CandidatesHide}
	return r
}

// withDisplayFrom keeps commit/side-effects from r, takes the
// display-related fields (marked/candidates/async request) from other.
func (r KeyResponse) withDisplayFrom(other KeyResponse) KeyResponse {
	r.Marked = other.Marked
	r.Candidates = other.Candidates
	r.AsyncRequest = other.AsyncRequest
	return r
}

// LearningRecord is a typed record of what the user confirmed or deleted,
// drained by TakeHistoryRecords and fed to the history store by the caller.
type LearningRecord struct {
	Deletion bool
	Reading  string
	Surface  string
	// Segments is the pre-segmented (reading, surface) path, present for
	// multi-segment commits (sub-phrase bigram learning) and for deletions.
	Segments [][2]string
}
