package history

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/lexcore/pkg/config"
	"github.com/bastiangx/lexcore/pkg/dict"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.History.HalfLifeHours = 168
	cfg.History.UnigramBoostK = 100
	cfg.History.BigramBoostK = 100
	cfg.History.MaxUnigramEntries = 10000
	cfg.History.MaxBigramEntries = 10000
	return cfg
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestDecayKnownTimestamps(t *testing.T) {
	const now int64 = 1_700_000_000
	halfLife := 168.0

	if d := decay(now, now, halfLife); !almostEqual(d, 1.0, 1e-9) {
		t.Fatalf("decay(now,now) = %v, want 1.0", d)
	}
	oneHalfLifeAgo := now - 168*3600
	if d := decay(oneHalfLifeAgo, now, halfLife); !almostEqual(d, 0.5, 1e-9) {
		t.Fatalf("decay(one half-life ago) = %v, want 0.5", d)
	}
	twoHalfLivesAgo := now - 336*3600
	if d := decay(twoHalfLivesAgo, now, halfLife); !almostEqual(d, 1.0/3.0, 1e-9) {
		t.Fatalf("decay(two half-lives ago) = %v, want 1/3", d)
	}
	oneDayAgo := now - 24*3600
	if d := decay(oneDayAgo, now, halfLife); !almostEqual(d, 168.0/192.0, 1e-9) {
		t.Fatalf("decay(24h ago) = %v, want 168/192", d)
	}
	future := now + 3600
	if d := decay(future, now, halfLife); !almostEqual(d, 1.0, 1e-9) {
		t.Fatalf("decay(future) = %v, want 1.0 (saturating to 0 elapsed)", d)
	}
}

func TestDecayVeryOldApproachesZero(t *testing.T) {
	const now int64 = 1_700_000_000
	veryOld := now - 365*24*3600
	d := decay(veryOld, now, 168)
	if d >= 0.02 {
		t.Fatalf("decay(one year ago) = %v, want < 0.02", d)
	}
}

func TestRecordUnigramThenBoostPositive(t *testing.T) {
	s := New(testConfig())
	const now int64 = 1_700_000_000
	s.RecordPairs([][2]string{{"きょう", "今日"}}, now)
	if boost := s.UnigramBoost("きょう", "今日", now); boost <= 0 {
		t.Fatalf("expected positive boost immediately after recording, got %d", boost)
	}
}

func TestNoBoostForUnrecorded(t *testing.T) {
	s := New(testConfig())
	if boost := s.UnigramBoost("きょう", "今日", 0); boost != 0 {
		t.Fatalf("expected zero boost for unrecorded pair, got %d", boost)
	}
}

func TestFrequencyIncrementsOnRepeatedRecord(t *testing.T) {
	s := New(testConfig())
	const now int64 = 1_700_000_000
	s.RecordPairs([][2]string{{"きょう", "今日"}}, now)
	first := s.UnigramBoost("きょう", "今日", now)
	s.RecordPairs([][2]string{{"きょう", "今日"}}, now)
	second := s.UnigramBoost("きょう", "今日", now)
	if second <= first {
		t.Fatalf("expected boost to increase with frequency: first=%d second=%d", first, second)
	}
}

func TestRecordBigramChain(t *testing.T) {
	s := New(testConfig())
	const now int64 = 1_700_000_000
	s.RecordPairs([][2]string{{"きょう", "今日"}, {"は", "は"}, {"いい", "良い"}}, now)

	successors := s.BigramSuccessors("今日", now)
	if len(successors) != 1 || successors[0].Surface != "は" {
		t.Fatalf("expected single は successor after 今日, got %+v", successors)
	}
	if boost := s.BigramBoost("今日", "は", "は", now); boost <= 0 {
		t.Fatalf("expected positive bigram boost, got %d", boost)
	}

	if successors := s.BigramSuccessors("良い", now); len(successors) != 0 {
		t.Fatalf("expected no successors after terminal word, got %+v", successors)
	}
}

func TestReorderCandidatesPrefersLearnedSurface(t *testing.T) {
	s := New(testConfig())
	const now int64 = 1_700_000_000
	entries := []dict.Entry{
		{Surface: "京", Cost: 100},
		{Surface: "今日", Cost: 500},
	}
	s.RecordPairs([][2]string{{"きょう", "今日"}}, now)
	// record several times so the boost clears the 400-cost gap
	for i := 0; i < 10; i++ {
		s.RecordPairs([][2]string{{"きょう", "今日"}}, now)
	}
	reordered := s.ReorderCandidates("きょう", entries, now)
	if reordered[0].Surface != "今日" {
		t.Fatalf("expected learned surface 今日 promoted to front, got %+v", reordered)
	}
}

func TestReorderCandidatesNoBoostPreservesOrder(t *testing.T) {
	s := New(testConfig())
	entries := []dict.Entry{
		{Surface: "京", Cost: 100},
		{Surface: "今日", Cost: 500},
	}
	reordered := s.ReorderCandidates("きょう", entries, 0)
	if reordered[0].Surface != "京" || reordered[1].Surface != "今日" {
		t.Fatalf("expected original cost order preserved with no history, got %+v", reordered)
	}
}

func TestEvictDropsLowestScoringUnigram(t *testing.T) {
	cfg := testConfig()
	cfg.History.MaxUnigramEntries = 2
	s := New(cfg)
	const now int64 = 1_700_000_000

	s.RecordPairs([][2]string{{"あ", "亜"}}, now-1000*3600) // old, low score
	s.RecordPairs([][2]string{{"い", "意"}}, now)
	s.RecordPairs([][2]string{{"う", "宇"}}, now)

	if boost := s.UnigramBoost("あ", "亜", now); boost != 0 {
		t.Fatalf("expected oldest entry evicted, still has boost %d", boost)
	}
	if boost := s.UnigramBoost("う", "宇", now); boost == 0 {
		t.Fatalf("expected freshest entry retained")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	cfg := testConfig()
	s := New(cfg)
	const now int64 = 1_700_000_000
	s.RecordPairs([][2]string{{"きょう", "今日"}, {"は", "は"}}, now)

	raw, err := s.ToBytes()
	if err != nil {
		t.Fatalf("ToBytes: %v", err)
	}
	restored, err := FromBytes(raw, cfg)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if boost := restored.UnigramBoost("きょう", "今日", now); boost <= 0 {
		t.Fatalf("expected restored store to retain unigram boost, got %d", boost)
	}
	if boost := restored.BigramBoost("今日", "は", "は", now); boost <= 0 {
		t.Fatalf("expected restored store to retain bigram boost, got %d", boost)
	}
}

func TestFileRoundTrip(t *testing.T) {
	cfg := testConfig()
	s := New(cfg)
	const now int64 = 1_700_000_000
	s.RecordPairs([][2]string{{"きょう", "今日"}}, now)

	dir := t.TempDir()
	path := filepath.Join(dir, "history.lxud")
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	restored, err := Open(path, cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if boost := restored.UnigramBoost("きょう", "今日", now); boost <= 0 {
		t.Fatalf("expected persisted boost to survive file round trip, got %d", boost)
	}
}

func TestOpenNonexistentReturnsEmptyStore(t *testing.T) {
	cfg := testConfig()
	s, err := Open(filepath.Join(t.TempDir(), "missing.lxud"), cfg)
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if boost := s.UnigramBoost("きょう", "今日", 0); boost != 0 {
		t.Fatalf("expected empty store, got boost %d", boost)
	}
}

func TestWALAppendAndReplay(t *testing.T) {
	cfg := testConfig()
	dir := t.TempDir()
	checkpoint := filepath.Join(dir, "history.lxud")
	const now int64 = 1_700_000_000

	wal := NewWAL(checkpoint)
	if err := wal.Append([][2]string{{"きょう", "今日"}}, now); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := wal.Append([][2]string{{"は", "は"}}, now+1); err != nil {
		t.Fatalf("Append: %v", err)
	}
	wal.Close()

	s := New(cfg)
	replayWAL := NewWAL(checkpoint)
	applied, err := replayWAL.Replay(s)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if applied != 2 {
		t.Fatalf("expected 2 replayed entries, got %d", applied)
	}
	if boost := s.UnigramBoost("きょう", "今日", now); boost <= 0 {
		t.Fatalf("expected replayed entry to be recorded, got boost %d", boost)
	}
}

func TestWALReplayStopsAtTruncatedTail(t *testing.T) {
	cfg := testConfig()
	dir := t.TempDir()
	checkpoint := filepath.Join(dir, "history.lxud")
	const now int64 = 1_700_000_000

	wal := NewWAL(checkpoint)
	if err := wal.Append([][2]string{{"きょう", "今日"}}, now); err != nil {
		t.Fatalf("Append: %v", err)
	}
	wal.Close()

	// Append a truncated frame: a length prefix claiming more bytes than follow.
	f, err := os.OpenFile(wal.walPath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("open wal for corrupt append: %v", err)
	}
	f.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0, 0, 0, 0})
	f.Close()

	s := New(cfg)
	replayWAL := NewWAL(checkpoint)
	applied, err := replayWAL.Replay(s)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if applied != 1 {
		t.Fatalf("expected replay to stop after the valid frame, got %d applied", applied)
	}
}

func TestWALNeedsCompact(t *testing.T) {
	dir := t.TempDir()
	checkpoint := filepath.Join(dir, "history.lxud")
	wal := NewWAL(checkpoint)
	for i := 0; i < CompactThreshold; i++ {
		if err := wal.Append([][2]string{{"あ", "亜"}}, int64(i)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if !wal.NeedsCompact() {
		t.Fatalf("expected NeedsCompact to report true at threshold")
	}
	if err := wal.Truncate(); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	if wal.NeedsCompact() {
		t.Fatalf("expected NeedsCompact to report false after truncate")
	}
}
