package dict

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/tchap/go-patricia/v2/patricia"
	"github.com/vmihailenco/msgpack/v5"
)

// TrieDictionary is the system dictionary: a patricia trie keyed by reading
// bytes, each leaf holding a value-id that indexes into a separate values
// table of cost-sorted entry lists. The trie is immutable after Build/Open.
// Open reads the whole LXDX file into memory and rebuilds the trie one
// record at a time; the file is not memory-mapped.
type TrieDictionary struct {
	trie   *patricia.Trie
	values [][]Entry
}

// trieRecord is the on-disk representation of one trie entry: a reading and
// the value-id of its entries slice. The trie bytes in the LXDX file are an
// opaque (to callers) msgpack encoding of these records; go-patricia itself
// has no native serialization, so this is lexcore's own trie byte format.
type trieRecord struct {
	Reading string `msgpack:"reading"`
	ValueID uint32 `msgpack:"value_id"`
}

// BuildTrieDictionary constructs a TrieDictionary from a map of reading to
// its cost-sorted entries. Entries for each reading are sorted ascending by
// cost, per the LXDX invariant.
func BuildTrieDictionary(byReading map[string][]Entry) *TrieDictionary {
	trie := patricia.NewTrie()
	values := make([][]Entry, 0, len(byReading))

	readings := make([]string, 0, len(byReading))
	for r := range byReading {
		readings = append(readings, r)
	}
	sort.Strings(readings)

	for _, reading := range readings {
		entries := append([]Entry(nil), byReading[reading]...)
		sort.Slice(entries, func(i, j int) bool { return entries[i].Cost < entries[j].Cost })
		id := uint32(len(values))
		values = append(values, entries)
		trie.Insert(patricia.Prefix(reading), id)
	}

	return &TrieDictionary{trie: trie, values: values}
}

// Lookup returns entries for an exact reading, sorted ascending by cost.
func (d *TrieDictionary) Lookup(reading string) []Entry {
	item := d.trie.Get(patricia.Prefix(reading))
	if item == nil {
		return nil
	}
	return d.values[item.(uint32)]
}

// Predict returns up to max (reading, entries) pairs for readings beginning
// with prefix, yielded in trie order.
func (d *TrieDictionary) Predict(prefix string, max int) []Reading {
	var out []Reading
	_ = d.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		if len(out) >= max {
			return patricia.SkipSubtree
		}
		out = append(out, Reading{Reading: string(p), Entries: d.values[item.(uint32)]})
		return nil
	})
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// CommonPrefixSearch returns (reading, entries) for every reading that is a
// prefix of query, shortest to longest.
func (d *TrieDictionary) CommonPrefixSearch(query string) []Reading {
	var out []Reading
	_ = d.trie.VisitPrefixes(patricia.Prefix(query), func(p patricia.Prefix, item patricia.Item) error {
		out = append(out, Reading{Reading: string(p), Entries: d.values[item.(uint32)]})
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return len(out[i].Reading) < len(out[j].Reading) })
	return out
}

// PredictRanked scans up to scanLimit readings, flattens, sorts by cost,
// dedups by surface, and truncates to max.
func (d *TrieDictionary) PredictRanked(prefix string, max, scanLimit int) []ScoredEntry {
	return PredictRanked(d, prefix, max, scanLimit)
}

// Encode serializes the dictionary to the LXDX v2 binary format.
func (d *TrieDictionary) Encode() ([]byte, error) {
	var records []trieRecord
	_ = d.trie.Visit(func(p patricia.Prefix, item patricia.Item) error {
		records = append(records, trieRecord{Reading: string(p), ValueID: item.(uint32)})
		return nil
	})

	trieBytes, err := msgpack.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("dict: encode trie records: %w", err)
	}
	valuesBytes, err := msgpack.Marshal(d.values)
	if err != nil {
		return nil, fmt.Errorf("dict: encode values table: %w", err)
	}

	var buf bytes.Buffer
	if err := writeHeader(&buf, uint32(len(trieBytes)), uint32(len(valuesBytes))); err != nil {
		return nil, err
	}
	buf.Write(trieBytes)
	buf.Write(valuesBytes)
	return buf.Bytes(), nil
}

// Decode parses the LXDX v2 binary format into a TrieDictionary.
func Decode(data []byte) (*TrieDictionary, error) {
	r := bytes.NewReader(data)
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	trieBytes := make([]byte, h.trieLen)
	if _, err := r.Read(trieBytes); err != nil {
		return nil, fmt.Errorf("%w: trie body: %v", ErrInvalidHeader, err)
	}
	valuesBytes := make([]byte, h.valuesLen)
	if _, err := r.Read(valuesBytes); err != nil {
		return nil, fmt.Errorf("%w: values body: %v", ErrInvalidHeader, err)
	}

	var records []trieRecord
	if err := msgpack.Unmarshal(trieBytes, &records); err != nil {
		return nil, fmt.Errorf("dict: decode trie records: %w", err)
	}
	var values [][]Entry
	if err := msgpack.Unmarshal(valuesBytes, &values); err != nil {
		return nil, fmt.Errorf("dict: decode values table: %w", err)
	}

	trie := patricia.NewTrie()
	for _, rec := range records {
		trie.Insert(patricia.Prefix(rec.Reading), rec.ValueID)
	}

	return &TrieDictionary{trie: trie, values: values}, nil
}

// Open reads and decodes a LXDX file from disk.
func Open(path string) (*TrieDictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("failed to read dictionary file %s: %v", path, err)
		return nil, err
	}
	return Decode(data)
}

// Save encodes the dictionary and writes it to disk.
func (d *TrieDictionary) Save(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
