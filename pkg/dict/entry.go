// Package dict implements the trie-backed dictionary: mapping a hiragana
// reading to a cost-sorted list of (surface, cost, left_id, right_id)
// entries, with exact lookup, prefix prediction, and common-prefix search.
package dict

import "sort"

// Entry is a single dictionary record. Cost encodes a log-likelihood-like
// preference (lower = more preferred). LeftID/RightID are POS identifiers
// used for connection-matrix lookup.
type Entry struct {
	Surface string `msgpack:"surface"`
	Cost    int16  `msgpack:"cost"`
	LeftID  uint16 `msgpack:"left_id"`
	RightID uint16 `msgpack:"right_id"`
}

// Reading pairs a hiragana reading with its entries, returned by Predict and
// CommonPrefixSearch.
type Reading struct {
	Reading string
	Entries []Entry
}

// Dictionary is the read interface every dictionary layer implements:
// the trie-backed system dictionary, the composite overlay, and the
// mutable user dictionary.
type Dictionary interface {
	// Lookup returns entries for an exact reading, sorted by ascending cost.
	// May be empty.
	Lookup(reading string) []Entry

	// Predict returns up to max (reading, entries) pairs for readings
	// beginning with prefix, yielded in trie order.
	Predict(prefix string, max int) []Reading

	// CommonPrefixSearch returns (reading, entries) for every reading that
	// is a prefix of query, ordered shortest to longest.
	CommonPrefixSearch(query string) []Reading
}

// ScoredEntry pairs an Entry with the reading that produced it. Predict can
// legitimately match a reading longer than the typed prefix (e.g. prefix
// "きょう" surfacing an entry keyed "きょうは"), so callers that rerank by
// history need each entry's own reading, not the caller's literal prefix.
type ScoredEntry struct {
	Reading string
	Entry   Entry
}

// PredictRanked scans up to scanLimit readings from d.Predict, flattens to
// (reading, entry) pairs, sorts by cost, deduplicates by surface (keeping
// the lowest cost), and truncates to max. Dictionary implementations that
// have no cheaper specialized strategy get this as their PredictRanked.
func PredictRanked(d Dictionary, prefix string, max, scanLimit int) []ScoredEntry {
	readings := d.Predict(prefix, scanLimit)

	var flats []ScoredEntry
	for _, r := range readings {
		for _, e := range r.Entries {
			flats = append(flats, ScoredEntry{Reading: r.Reading, Entry: e})
		}
	}
	sort.Slice(flats, func(i, j int) bool { return flats[i].Entry.Cost < flats[j].Entry.Cost })

	seen := make(map[string]bool, len(flats))
	out := make([]ScoredEntry, 0, max)
	for _, f := range flats {
		if seen[f.Entry.Surface] {
			continue
		}
		seen[f.Entry.Surface] = true
		out = append(out, f)
		if len(out) >= max {
			break
		}
	}
	return out
}
