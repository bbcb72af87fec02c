// Package composite layers dictionaries: an ordered sequence of child
// dictionaries (e.g. a built-in system dictionary plus a user dictionary),
// queried together and deduplicated by surface.
package composite

import (
	"sort"

	"github.com/bastiangx/lexcore/pkg/dict"
)

// Dictionary merges results from multiple layers. Layers are searched in
// order; when several layers hold the same surface, the lowest-cost entry
// wins, and on a cost tie the entry from the earlier layer is kept.
type Dictionary struct {
	layers []dict.Dictionary
}

// New builds a composite dictionary over the given layers.
func New(layers []dict.Dictionary) *Dictionary {
	return &Dictionary{layers: layers}
}

// dedupEntries deduplicates entries by surface, keeping the lowest cost.
func dedupEntries(entries []dict.Entry) []dict.Entry {
	best := make(map[string]dict.Entry, len(entries))
	for _, e := range entries {
		if cur, ok := best[e.Surface]; !ok || e.Cost < cur.Cost {
			best[e.Surface] = e
		}
	}
	out := make([]dict.Entry, 0, len(best))
	for _, e := range best {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cost < out[j].Cost })
	return out
}

// mergeReadings merges readings by reading string, deduplicating entries
// within each reading.
func mergeReadings(all []dict.Reading) []dict.Reading {
	byReading := make(map[string][]dict.Entry)
	order := make([]string, 0)
	for _, r := range all {
		if _, seen := byReading[r.Reading]; !seen {
			order = append(order, r.Reading)
		}
		byReading[r.Reading] = append(byReading[r.Reading], r.Entries...)
	}
	merged := make([]dict.Reading, 0, len(order))
	for _, reading := range order {
		merged = append(merged, dict.Reading{Reading: reading, Entries: dedupEntries(byReading[reading])})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Reading < merged[j].Reading })
	return merged
}

// Lookup queries every layer and deduplicates by surface.
func (d *Dictionary) Lookup(reading string) []dict.Entry {
	var all []dict.Entry
	for _, layer := range d.layers {
		all = append(all, layer.Lookup(reading)...)
	}
	return dedupEntries(all)
}

// Predict queries every layer, merges by reading, and truncates to max.
func (d *Dictionary) Predict(prefix string, max int) []dict.Reading {
	var all []dict.Reading
	for _, layer := range d.layers {
		all = append(all, layer.Predict(prefix, max)...)
	}
	merged := mergeReadings(all)
	if len(merged) > max {
		merged = merged[:max]
	}
	return merged
}

// CommonPrefixSearch queries every layer and merges by reading.
func (d *Dictionary) CommonPrefixSearch(query string) []dict.Reading {
	var all []dict.Reading
	for _, layer := range d.layers {
		all = append(all, layer.CommonPrefixSearch(query)...)
	}
	return mergeReadings(all)
}

// PredictRanked uses the shared default implementation from pkg/dict.
func (d *Dictionary) PredictRanked(prefix string, max, scanLimit int) []dict.ScoredEntry {
	return dict.PredictRanked(d, prefix, max, scanLimit)
}
