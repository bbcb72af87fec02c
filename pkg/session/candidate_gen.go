package session

import (
	"github.com/bastiangx/lexcore/pkg/candidates"
	"github.com/bastiangx/lexcore/pkg/convert"
	"github.com/bastiangx/lexcore/pkg/viterbi"
)

func (s *InputSession) generateCandidates(reading string) candidates.Response {
	now := s.nowFn()
	switch s.config.ConversionMode {
	case ModePredictive:
		return candidates.GeneratePredictive(s.dict, s.conn, s.history, reading, maxCandidates, now, s.cfg)
	default:
		return candidates.GenerateStandard(s.dict, s.conn, s.history, reading, maxCandidates, now, s.cfg)
	}
}

// updateCandidates runs the configured strategy synchronously and tracks
// stability off the resulting N-best paths.
func (s *InputSession) updateCandidates() {
	c := s.comp()
	c.candidates.selected = 0

	if c.kana == "" {
		c.candidates.clear()
		c.stability.reset()
		return
	}

	reading := c.kana
	resp := s.generateCandidates(reading)

	c = s.comp()
	c.candidates.surfaces = resp.Surfaces
	c.candidates.paths = resp.Paths
	c.stability.track(c.candidates.paths)
}

// makeDeferredCandidatesResponse computes a quick synchronous 1-best for
// interim display, then asks the host to run full candidate generation
// asynchronously. Stability is NOT reset here: it must accumulate across
// keystrokes the same way the synchronous path does.
func (s *InputSession) makeDeferredCandidatesResponse() KeyResponse {
	c := s.comp()
	reading := c.kana

	if reading != "" {
		now := s.nowFn()
		var path []viterbi.ConvertedSegment
		if s.history != nil {
			path = convert.ConvertWithHistory(s.dict, s.conn, s.history, reading, now, s.cfg)
		} else {
			path = convert.Convert(s.dict, s.conn, reading, s.cfg)
		}
		surface := pathSurface(path)
		c = s.comp()
		c.candidates.surfaces = []string{surface}
		c.candidates.paths = [][]viterbi.ConvertedSegment{path}
		c.candidates.selected = 0
	} else {
		c.candidates.clear()
	}

	resp := s.makeMarkedTextResponse()
	if reading != "" {
		resp.AsyncRequest = &AsyncCandidateRequest{Reading: reading, DispatchTag: s.config.ConversionMode.candidateDispatchTag()}
	}
	return resp
}

// ReceiveCandidates applies asynchronously generated candidates. Returns
// false if reading is stale (the composing kana has since changed).
func (s *InputSession) ReceiveCandidates(reading string, surfaces []string, paths [][]viterbi.ConvertedSegment) (KeyResponse, bool) {
	if s.state.kind != stateComposing || s.state.composing.kana != reading {
		return KeyResponse{}, false
	}

	c := s.state.composing
	c.candidates.surfaces = surfaces
	c.candidates.paths = paths
	c.candidates.selected = 0
	c.stability.track(c.candidates.paths)

	if resp, ok := s.tryAutoCommit(); ok {
		return resp, true
	}
	return s.makeMarkedTextAndCandidatesResponse(), true
}
