// Package history implements the time-decayed user history store: unigram
// and bigram conversion choices, boosted by recency and frequency, queried
// by the reranker and predictive candidate strategies.
package history

import (
	"sort"
	"sync"
	"time"

	"github.com/bastiangx/lexcore/internal/logging"
	"github.com/bastiangx/lexcore/pkg/config"
	"github.com/bastiangx/lexcore/pkg/dict"
)

var log = logging.New("history")

// NowEpoch returns the current time as unix epoch seconds, the clock source
// every decay calculation in this package is measured against.
func NowEpoch() int64 {
	return time.Now().Unix()
}

// Entry tracks how often and how recently a (reading, surface) or bigram
// pair was chosen.
type Entry struct {
	Frequency uint32
	LastUsed  int64 // unix epoch seconds
}

type bigramKey struct {
	nextReading string
	nextSurface string
}

// Store is the reader-writer-locked, time-decayed history of user
// conversion choices.
type Store struct {
	mu       sync.RWMutex
	unigrams map[string]map[string]Entry             // reading -> surface -> entry
	bigrams  map[string]map[bigramKey]Entry           // prev_surface -> (next_reading,next_surface) -> entry
	cfg      *config.Config
}

// New returns an empty history store tuned by cfg.
func New(cfg *config.Config) *Store {
	return &Store{
		unigrams: make(map[string]map[string]Entry),
		bigrams:  make(map[string]map[bigramKey]Entry),
		cfg:      cfg,
	}
}

// decay computes the time-decay factor: 1/(1 + hours_elapsed/half_life).
// Future timestamps (clock skew) saturate hours_elapsed to 0, yielding 1.0.
func decay(lastUsed, now int64, halfLifeHours float64) float64 {
	elapsedSeconds := now - lastUsed
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	hours := float64(elapsedSeconds) / 3600.0
	return 1.0 / (1.0 + hours/halfLifeHours)
}

// Record increments the unigram entry for each (reading, surface) pair and
// the bigram entry for each consecutive pair, then lazily evicts if either
// map has grown past its configured maximum.
func (s *Store) Record(segments []dict.Reading, now int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordLocked(pairsFromReadings(segments), now)
}

// RecordPairs is Record taking (reading, surface) pairs directly, used by
// WAL replay and the session layer's commit path.
func (s *Store) RecordPairs(pairs [][2]string, now int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordLocked(pairs, now)
}

func pairsFromReadings(segments []dict.Reading) [][2]string {
	var out [][2]string
	for _, seg := range segments {
		for _, e := range seg.Entries {
			out = append(out, [2]string{seg.Reading, e.Surface})
		}
	}
	return out
}

func (s *Store) recordLocked(pairs [][2]string, now int64) {
	for _, p := range pairs {
		reading, surface := p[0], p[1]
		inner, ok := s.unigrams[reading]
		if !ok {
			inner = make(map[string]Entry)
			s.unigrams[reading] = inner
		}
		entry := inner[surface]
		if entry.Frequency < ^uint32(0) {
			entry.Frequency++
		}
		entry.LastUsed = now
		inner[surface] = entry
	}
	for i := 0; i+1 < len(pairs); i++ {
		prevSurface := pairs[i][1]
		key := bigramKey{nextReading: pairs[i+1][0], nextSurface: pairs[i+1][1]}
		inner, ok := s.bigrams[prevSurface]
		if !ok {
			inner = make(map[bigramKey]Entry)
			s.bigrams[prevSurface] = inner
		}
		entry := inner[key]
		if entry.Frequency < ^uint32(0) {
			entry.Frequency++
		}
		entry.LastUsed = now
		inner[key] = entry
	}
	s.evictUnigramsLocked()
	s.evictBigramsLocked()
	log.Debugf("recorded %d pairs at epoch %d", len(pairs), now)
}

func (s *Store) evictUnigramsLocked() {
	total := 0
	for _, inner := range s.unigrams {
		total += len(inner)
	}
	if total <= s.cfg.History.MaxUnigramEntries {
		return
	}
	type key struct {
		reading, surface string
		score            float64
	}
	var all []key
	now := latestTimestampUnigrams(s.unigrams)
	for reading, inner := range s.unigrams {
		for surface, e := range inner {
			score := float64(e.Frequency) * decay(e.LastUsed, now, s.cfg.History.HalfLifeHours)
			all = append(all, key{reading, surface, score})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].score < all[j].score })
	drop := total - s.cfg.History.MaxUnigramEntries
	for i := 0; i < drop && i < len(all); i++ {
		delete(s.unigrams[all[i].reading], all[i].surface)
		if len(s.unigrams[all[i].reading]) == 0 {
			delete(s.unigrams, all[i].reading)
		}
	}
}

func (s *Store) evictBigramsLocked() {
	total := 0
	for _, inner := range s.bigrams {
		total += len(inner)
	}
	if total <= s.cfg.History.MaxBigramEntries {
		return
	}
	type key struct {
		prev  string
		bk    bigramKey
		score float64
	}
	var all []key
	now := latestTimestampBigrams(s.bigrams)
	for prev, inner := range s.bigrams {
		for bk, e := range inner {
			score := float64(e.Frequency) * decay(e.LastUsed, now, s.cfg.History.HalfLifeHours)
			all = append(all, key{prev, bk, score})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].score < all[j].score })
	drop := total - s.cfg.History.MaxBigramEntries
	for i := 0; i < drop && i < len(all); i++ {
		delete(s.bigrams[all[i].prev], all[i].bk)
		if len(s.bigrams[all[i].prev]) == 0 {
			delete(s.bigrams, all[i].prev)
		}
	}
}

func latestTimestampUnigrams(m map[string]map[string]Entry) int64 {
	var latest int64
	for _, inner := range m {
		for _, e := range inner {
			if e.LastUsed > latest {
				latest = e.LastUsed
			}
		}
	}
	return latest
}

func latestTimestampBigrams(m map[string]map[bigramKey]Entry) int64 {
	var latest int64
	for _, inner := range m {
		for _, e := range inner {
			if e.LastUsed > latest {
				latest = e.LastUsed
			}
		}
	}
	return latest
}

// UnigramBoost returns the decayed, frequency-weighted boost for a
// (reading, surface) pair, or 0 if never recorded.
func (s *Store) UnigramBoost(reading, surface string, now int64) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inner, ok := s.unigrams[reading]
	if !ok {
		return 0
	}
	e, ok := inner[surface]
	if !ok {
		return 0
	}
	d := decay(e.LastUsed, now, s.cfg.History.HalfLifeHours)
	return int64(float64(s.cfg.History.UnigramBoostK) * float64(e.Frequency) * d)
}

// BigramBoost returns the decayed, frequency-weighted boost for a
// (prevSurface -> nextReading/nextSurface) transition, or 0 if never seen.
func (s *Store) BigramBoost(prevSurface, nextReading, nextSurface string, now int64) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inner, ok := s.bigrams[prevSurface]
	if !ok {
		return 0
	}
	e, ok := inner[bigramKey{nextReading, nextSurface}]
	if !ok {
		return 0
	}
	d := decay(e.LastUsed, now, s.cfg.History.HalfLifeHours)
	return int64(float64(s.cfg.History.BigramBoostK) * float64(e.Frequency) * d)
}

// LearnedSurfaces returns surfaces for reading with positive decayed
// frequency, for injecting learned forms into candidate lists.
func (s *Store) LearnedSurfaces(reading string, now int64) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inner, ok := s.unigrams[reading]
	if !ok {
		return nil
	}
	type scored struct {
		surface string
		score   float64
	}
	var all []scored
	for surface, e := range inner {
		score := float64(e.Frequency) * decay(e.LastUsed, now, s.cfg.History.HalfLifeHours)
		if score > 0 {
			all = append(all, scored{surface, score})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].score > all[j].score })
	out := make([]string, len(all))
	for i, a := range all {
		out[i] = a.surface
	}
	return out
}

// BigramSuccessor is a learned (reading, surface, boost) continuation.
type BigramSuccessor struct {
	Reading string
	Surface string
	Boost   int64
}

// BigramSuccessors returns learned continuations after prevSurface, used by
// the predictive bigram-chaining candidate strategy.
func (s *Store) BigramSuccessors(prevSurface string, now int64) []BigramSuccessor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inner, ok := s.bigrams[prevSurface]
	if !ok {
		return nil
	}
	out := make([]BigramSuccessor, 0, len(inner))
	for bk, e := range inner {
		d := decay(e.LastUsed, now, s.cfg.History.HalfLifeHours)
		boost := int64(float64(s.cfg.History.BigramBoostK) * float64(e.Frequency) * d)
		out = append(out, BigramSuccessor{Reading: bk.nextReading, Surface: bk.nextSurface, Boost: boost})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Boost > out[j].Boost })
	return out
}

// ReorderCandidates stable-sorts entries by decayed unigram boost
// descending, then by original dictionary cost ascending, so candidates
// with no recorded history keep their Viterbi/dictionary order.
func (s *Store) ReorderCandidates(reading string, entries []dict.Entry, now int64) []dict.Entry {
	out := append([]dict.Entry(nil), entries...)
	boosts := make(map[string]int64, len(out))
	for _, e := range out {
		boosts[e.Surface] = s.UnigramBoost(reading, e.Surface, now)
	}
	sort.SliceStable(out, func(i, j int) bool {
		bi, bj := boosts[out[i].Surface], boosts[out[j].Surface]
		if bi != bj {
			return bi > bj
		}
		return out[i].Cost < out[j].Cost
	})
	return out
}

// ReorderScoredCandidates is ReorderCandidates for entries carrying their
// own reading (as PredictRanked returns): Predict can match a reading
// longer than the caller's typed prefix, so the unigram boost lookup must
// use each entry's own reading rather than one reading shared by all of
// them.
func (s *Store) ReorderScoredCandidates(entries []dict.ScoredEntry, now int64) []dict.ScoredEntry {
	out := append([]dict.ScoredEntry(nil), entries...)
	boostKey := func(e dict.ScoredEntry) string { return e.Reading + "\x00" + e.Entry.Surface }
	boosts := make(map[string]int64, len(out))
	for _, e := range out {
		boosts[boostKey(e)] = s.UnigramBoost(e.Reading, e.Entry.Surface, now)
	}
	sort.SliceStable(out, func(i, j int) bool {
		bi, bj := boosts[boostKey(out[i])], boosts[boostKey(out[j])]
		if bi != bj {
			return bi > bj
		}
		return out[i].Entry.Cost < out[j].Entry.Cost
	})
	return out
}
