package session

import (
	"testing"

	"github.com/bastiangx/lexcore/pkg/candidates"
)

// completeCycle mirrors the reference simulator's async round-trip: pull
// the live reading, generate candidates for it exactly as the host's
// worker thread would, and feed them back.
func completeCycle(t *testing.T, s *InputSession) (KeyResponse, bool) {
	t.Helper()
	if !s.IsComposing() {
		return KeyResponse{}, false
	}
	reading := s.comp().kana
	if reading == "" {
		return KeyResponse{}, false
	}
	var resp candidates.Response
	switch s.config.ConversionMode {
	case ModePredictive:
		resp = candidates.GeneratePredictive(s.dict, s.conn, s.history, reading, maxCandidates, s.nowFn(), s.cfg)
	default:
		resp = candidates.GenerateStandard(s.dict, s.conn, s.history, reading, maxCandidates, s.nowFn(), s.cfg)
	}
	return s.ReceiveCandidates(reading, resp.Surfaces, resp.Paths)
}

func TestDeferredAutoCommitShowsProvisionalCandidates(t *testing.T) {
	s := newTestSession()
	s.SetDeferCandidates(true)

	typeString(s, "kyou")
	resp, ok := completeCycle(t, s)
	if !ok || resp.Commit != nil {
		t.Fatalf("expected no auto-commit yet, got ok=%v commit=%v", ok, resp.Commit)
	}

	typeString(s, "ha")
	resp, ok = completeCycle(t, s)
	if !ok || resp.Commit != nil {
		t.Fatalf("expected no auto-commit yet after は, got ok=%v commit=%v", ok, resp.Commit)
	}

	typeString(s, "ii")
	resp, ok = completeCycle(t, s)
	if !ok || resp.Commit != nil {
		t.Fatalf("expected no auto-commit yet (< 4 segments), got ok=%v commit=%v", ok, resp.Commit)
	}

	typeString(s, "tenki")
	resp, ok = completeCycle(t, s)
	if !ok {
		t.Fatalf("expected ReceiveCandidates to return a response")
	}
	if resp.Commit == nil {
		t.Fatalf("expected auto-commit to produce commit text")
	}
	if resp.Candidates.Kind != CandidatesShow || len(resp.Candidates.Surfaces) == 0 {
		t.Fatalf("expected deferred auto-commit to show provisional candidates, got %+v", resp.Candidates)
	}
	if resp.AsyncRequest == nil {
		t.Fatalf("expected deferred auto-commit to request async candidate generation")
	}
	if len(s.comp().candidates.surfaces) == 0 {
		t.Fatalf("expected session to retain provisional candidates for navigation")
	}
}

func TestPredictiveModeNoAutoCommit(t *testing.T) {
	s := newTestSession()
	s.SetConversionMode(ModePredictive)
	s.SetDeferCandidates(true)

	typeString(s, "kyou")
	completeCycle(t, s)
	typeString(s, "ha")
	completeCycle(t, s)
	typeString(s, "ii")
	completeCycle(t, s)
	typeString(s, "tenki")
	resp, ok := completeCycle(t, s)

	if ok && resp.Commit != nil {
		t.Fatalf("expected predictive mode not to auto-commit, got commit=%v", *resp.Commit)
	}
}

func TestStandardModeDeferredDispatchTag(t *testing.T) {
	s := newTestSession()
	s.SetDeferCandidates(true)
	s.HandleKey(TextEvent("k"))
	resp := s.HandleKey(TextEvent("a"))
	if resp.AsyncRequest != nil && resp.AsyncRequest.DispatchTag != 0 {
		t.Fatalf("expected standard dispatch tag 0, got %d", resp.AsyncRequest.DispatchTag)
	}
}

func TestPredictiveModeDeferredDispatchTag(t *testing.T) {
	s := newTestSession()
	s.SetConversionMode(ModePredictive)
	s.SetDeferCandidates(true)
	s.HandleKey(TextEvent("k"))
	resp := s.HandleKey(TextEvent("a"))
	if resp.AsyncRequest != nil && resp.AsyncRequest.DispatchTag != 1 {
		t.Fatalf("expected predictive dispatch tag 1, got %d", resp.AsyncRequest.DispatchTag)
	}
}
