package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/bastiangx/lexcore/pkg/candidates"
	"github.com/bastiangx/lexcore/pkg/config"
	"github.com/bastiangx/lexcore/pkg/conn"
	"github.com/bastiangx/lexcore/pkg/dict"
	"github.com/bastiangx/lexcore/pkg/history"
	"github.com/bastiangx/lexcore/pkg/session"
	"github.com/charmbracelet/log"
)

// commandKeys maps the REPL's ":word" tokens to the key event they simulate.
// Runs of plain ASCII letters/digits/punctuation outside this table are
// typed one rune at a time as KeyText.
var commandKeys = map[string]session.KeyEvent{
	"enter": {Kind: session.KeyEnter},
	"space": {Kind: session.KeySpace},
	"bs":    {Kind: session.KeyBackspace},
	"esc":   {Kind: session.KeyEscape},
	"tab":   {Kind: session.KeyTab},
	"down":  {Kind: session.KeyArrowDown},
	"up":    {Kind: session.KeyArrowUp},
	"del":   {Kind: session.KeyForwardDelete},
	"abc":   {Kind: session.KeySwitchToDirectInput},
	"jp":    {Kind: session.KeySwitchToJapanese},
	"snip":  {Kind: session.KeySnippetTrigger},
}

// SessionRepl drives an InputSession from line-oriented stdin input, for
// manually exercising the conversion engine without a host editor. It is a
// testing aid, not an IPC server or a dictionary compiler.
type SessionRepl struct {
	sess *session.InputSession
	d    dict.Dictionary
	m    *conn.Matrix
	h    *history.Store
	cfg  *config.Config
}

// NewSessionRepl wires a session over the given collaborators. m and h may
// be nil (disables bigram scoring and history rerank/learning respectively).
func NewSessionRepl(d dict.Dictionary, m *conn.Matrix, h *history.Store, cfg *config.Config) *SessionRepl {
	sess := session.NewInputSession(d, m, h, nil, cfg, nil)
	return &SessionRepl{sess: sess, d: d, m: m, h: h, cfg: cfg}
}

// Start runs the read-eval-print loop until stdin closes or an I/O error
// occurs.
func (r *SessionRepl) Start() error {
	log.Print("lexctl [manual session exercise]")
	log.Print("plain text is typed rune-by-rune; :enter :space :bs :esc :tab :down :up :del :abc :jp :snip simulate the matching key; :quit exits")
	reader := bufio.NewReader(os.Stdin)

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ":quit" {
			return nil
		}
		r.feedLine(line)
		r.render()
	}
}

func (r *SessionRepl) feedLine(line string) {
	for _, token := range strings.Fields(line) {
		if strings.HasPrefix(token, ":") {
			event, ok := commandKeys[token[1:]]
			if !ok {
				log.Warnf("unknown command %q", token)
				continue
			}
			r.dispatch(event)
			continue
		}
		for _, ch := range token {
			r.dispatch(session.TextEvent(string(ch)))
		}
	}
}

func (r *SessionRepl) dispatch(event session.KeyEvent) {
	resp := r.sess.HandleKey(event)
	if resp.Commit != nil {
		log.Printf("commit: %q", *resp.Commit)
	}
	if resp.AsyncRequest != nil {
		r.resolveAsync(*resp.AsyncRequest)
	}
	if resp.GhostRequest != nil {
		log.Debugf("ghost requested for context %q (gen %d)", resp.GhostRequest.Context, resp.GhostRequest.Generation)
	}
	for _, rec := range r.sess.TakeHistoryRecords() {
		if r.h == nil {
			continue
		}
		if rec.Deletion {
			continue
		}
		r.h.RecordPairs(append(rec.Segments, [2]string{rec.Reading, rec.Surface}), history.NowEpoch())
	}
}

// resolveAsync mirrors what a host's worker thread does off the synchronous
// keystroke path: run candidate generation for the requested strategy and
// hand the result back in.
func (r *SessionRepl) resolveAsync(req session.AsyncCandidateRequest) {
	now := history.NowEpoch()
	var resp candidates.Response
	if req.DispatchTag == 1 {
		resp = candidates.GeneratePredictive(r.d, r.m, r.h, req.Reading, r.cfg.Candidates.MaxResults, now, r.cfg)
	} else {
		resp = candidates.GenerateStandard(r.d, r.m, r.h, req.Reading, r.cfg.Candidates.MaxResults, now, r.cfg)
	}
	followUp, ok := r.sess.ReceiveCandidates(req.Reading, resp.Surfaces, resp.Paths)
	if !ok {
		return
	}
	if followUp.Commit != nil {
		log.Printf("commit: %q", *followUp.Commit)
	}
}

func (r *SessionRepl) render() {
	if r.sess.ComposedString() != "" {
		fmt.Printf("  marked: %s\n", r.sess.ComposedString())
	}
}
