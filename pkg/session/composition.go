package session

import (
	"strings"

	"github.com/bastiangx/lexcore/pkg/viterbi"
)

// maxComposedKanaLength caps a single composition's kana buffer; past this
// the composition is force-committed and a fresh one started, so a runaway
// paste or stuck key never grows kana unbounded.
const maxComposedKanaLength = 100

// maxCandidates bounds how many candidates a single generation call returns.
const maxCandidates = 20

// ConversionMode determines how candidates are generated, what Tab does,
// and whether auto-commit fires.
type ConversionMode uint8

const (
	// ModeStandard: Viterbi N-best + predictions + lookup; Tab toggles submode.
	ModeStandard ConversionMode = iota
	// ModePredictive: Viterbi base + bigram-chained completions; Tab commits.
	ModePredictive
	// ModeGhostText: speculative decode while composing, idle ghost text
	// after commit; Tab commits.
	ModeGhostText
)

type tabAction uint8

const (
	tabToggleSubmode tabAction = iota
	tabCommit
)

func (m ConversionMode) tabAction() tabAction {
	switch m {
	case ModeStandard:
		return tabToggleSubmode
	default:
		return tabCommit
	}
}

func (m ConversionMode) autoCommitEnabled() bool {
	return m == ModeStandard
}

// candidateDispatchTag is the FFI dispatch tag for async candidate
// generation: 0=standard, 1=predictive, 2=neural (neural is selected by the
// GhostText mode's speculative-decode path).
func (m ConversionMode) candidateDispatchTag() uint8 {
	switch m {
	case ModeStandard:
		return 0
	case ModePredictive:
		return 1
	default:
		return 2
	}
}

// Submode discriminates Japanese kana composition from direct English entry
// within a single composition (toggled by Tab in Standard mode).
type Submode uint8

const (
	SubmodeJapanese Submode = iota
	SubmodeEnglish
)

type sessionStateKind uint8

const (
	stateIdle sessionStateKind = iota
	stateComposing
	stateSnippet
)

type sessionState struct {
	kind      sessionStateKind
	composing *Composition
	snippet   *SnippetState
}

// Composition is the live state of one in-progress conversion: the kana
// read so far, any not-yet-resolved romaji, the candidate panel, a stability
// tracker driving auto-commit, and a frozen prefix of already-decided text
// (built up by submode toggles within the same keystroke run; an auto-commit
// emits the prefix together with the committed segment and clears it).
type Composition struct {
	submode    Submode
	kana       string
	pending    string
	prefix     FrozenPrefix
	candidates CandidateState
	stability  StabilityTracker
}

func newComposition(submode Submode) *Composition {
	return &Composition{submode: submode}
}

// display computes the marked text: the selected candidate's surface (plus
// any pending romaji suffix) in Japanese submode, or kana+pending otherwise.
func (c *Composition) display() string {
	var segment string
	if c.submode == SubmodeJapanese {
		if c.candidates.selected >= 0 && c.candidates.selected < len(c.candidates.surfaces) {
			surface := c.candidates.surfaces[c.candidates.selected]
			if c.pending == "" {
				segment = surface
			} else {
				segment = surface + c.pending
			}
		} else {
			segment = c.kana + c.pending
		}
	} else {
		segment = c.kana + c.pending
	}
	return c.prefix.Text + segment
}

// displayKana is the display string ignoring candidates: always kana+pending.
func (c *Composition) displayKana() string {
	return c.prefix.Text + c.kana + c.pending
}

// findMatchingPath returns the (reading, surface) segment pairs of the
// N-best path whose concatenated surfaces equal surface, for sub-phrase
// history learning. Single-segment paths return nil: there's no sub-phrase
// to learn beyond the plain unigram record already taken by the caller.
func (c *Composition) findMatchingPath(surface string) [][2]string {
	for _, path := range c.candidates.paths {
		if pathSurface(path) == surface {
			if len(path) <= 1 {
				return nil
			}
			pairs := make([][2]string, len(path))
			for i, seg := range path {
				pairs[i] = [2]string{seg.Reading, seg.Surface}
			}
			return pairs
		}
	}
	return nil
}

func pathSurface(path []viterbi.ConvertedSegment) string {
	var b strings.Builder
	for _, seg := range path {
		b.WriteString(seg.Surface)
	}
	return b.String()
}

// CandidateState is the candidate panel: the ranked surface list, the rich
// N-best paths backing it (for sub-phrase history learning), and which
// surface is currently selected.
type CandidateState struct {
	surfaces []string
	paths    [][]viterbi.ConvertedSegment
	selected int
}

func (c *CandidateState) clear() {
	c.surfaces = nil
	c.paths = nil
	c.selected = 0
}

func (c *CandidateState) isEmpty() bool { return len(c.surfaces) == 0 }

// StabilityTracker counts consecutive candidate updates whose #1 path's
// first-segment reading hasn't changed, gating auto-commit.
type StabilityTracker struct {
	prevFirstSegReading string
	hasPrev             bool
	count               int
}

func (s *StabilityTracker) reset() {
	s.prevFirstSegReading = ""
	s.hasPrev = false
	s.count = 0
}

func (s *StabilityTracker) track(paths [][]viterbi.ConvertedSegment) {
	if len(paths) == 0 || len(paths[0]) < 2 {
		s.reset()
		return
	}
	firstReading := paths[0][0].Reading
	if s.hasPrev && s.prevFirstSegReading == firstReading {
		s.count++
	} else {
		s.prevFirstSegReading = firstReading
		s.hasPrev = true
		s.count = 1
	}
}

// FrozenPrefix is already-decided text accumulated ahead of the live kana
// buffer within one composition (e.g. after a submode toggle freezes the
// previously selected surface).
type FrozenPrefix struct {
	Text             string
	HasBoundarySpace bool
}

func (p *FrozenPrefix) isEmpty() bool { return p.Text == "" }

func (p *FrozenPrefix) pushStr(s string) { p.Text += s }

// undoBoundarySpace removes a trailing boundary space this prefix added
// (e.g. on Backspace immediately after a programmer-mode submode toggle).
func (p *FrozenPrefix) undoBoundarySpace() bool {
	if p.HasBoundarySpace && strings.HasSuffix(p.Text, " ") {
		p.Text = p.Text[:len(p.Text)-1]
		p.HasBoundarySpace = false
		return true
	}
	return false
}

// GhostState holds the most recent ghost-text suggestion and the generation
// counter guarding it against stale async responses.
type GhostState struct {
	Text       string
	HasText    bool
	Generation uint64
}

// SessionConfig groups the session-wide toggles that shape key handling.
type SessionConfig struct {
	ProgrammerMode  bool
	DeferCandidates bool
	ConversionMode  ConversionMode
}

// SnippetState is the sub-state machine entered via KeySnippetTrigger:
// keystrokes filter a snippet list by prefix instead of composing kana.
type SnippetState struct {
	filter   string
	matches  []SnippetEntry
	selected int
}

// SnippetEntry is one candidate snippet: key is the filterable trigger,
// Body is the (possibly variable-templated) text it expands to.
type SnippetEntry struct {
	Key  string
	Body string
}
