package composite

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/bastiangx/lexcore/internal/logging"
	"github.com/bastiangx/lexcore/pkg/dict"
	"github.com/vmihailenco/msgpack/v5"
)

var log = logging.New("composite")

// User dictionary constants. Registered words use a fixed low cost (below
// any system entry) and a fixed POS id, so they win in Viterbi.
const (
	UserPOSID uint16 = 1852
	UserCost  int16  = -1
)

// UserDict is a mutable, reader-writer-locked dictionary for user-registered
// (reading, surface) pairs. Safe to call register/unregister while readers
// hold a reference: reads see a consistent snapshot because every read
// operation clones the entries it returns.
type UserDict struct {
	mu      sync.RWMutex
	entries map[string][]dict.Entry
}

// NewUserDict returns an empty user dictionary.
func NewUserDict() *UserDict {
	return &UserDict{entries: make(map[string][]dict.Entry)}
}

// Register adds (reading, surface) to the user dictionary. If the pair
// already exists, this is a no-op.
func (u *UserDict) Register(reading, surface string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, e := range u.entries[reading] {
		if e.Surface == surface {
			return
		}
	}
	u.entries[reading] = append(u.entries[reading], dict.Entry{
		Surface: surface,
		Cost:    UserCost,
		LeftID:  UserPOSID,
		RightID: UserPOSID,
	})
}

// Unregister removes (reading, surface) from the user dictionary.
func (u *UserDict) Unregister(reading, surface string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	list := u.entries[reading]
	for i, e := range list {
		if e.Surface == surface {
			u.entries[reading] = append(list[:i], list[i+1:]...)
			if len(u.entries[reading]) == 0 {
				delete(u.entries, reading)
			}
			return
		}
	}
}

// List returns all (reading, surface) pairs currently registered.
func (u *UserDict) List() []dict.Reading {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]dict.Reading, 0, len(u.entries))
	for reading, entries := range u.entries {
		out = append(out, dict.Reading{Reading: reading, Entries: append([]dict.Entry(nil), entries...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reading < out[j].Reading })
	return out
}

// Lookup implements dict.Dictionary.
func (u *UserDict) Lookup(reading string) []dict.Entry {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]dict.Entry(nil), u.entries[reading]...)
}

// Predict implements dict.Dictionary.
func (u *UserDict) Predict(prefix string, max int) []dict.Reading {
	u.mu.RLock()
	defer u.mu.RUnlock()
	var out []dict.Reading
	for reading, entries := range u.entries {
		if strings.HasPrefix(reading, prefix) {
			out = append(out, dict.Reading{Reading: reading, Entries: append([]dict.Entry(nil), entries...)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reading < out[j].Reading })
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// CommonPrefixSearch implements dict.Dictionary. Char-boundary safe: walks
// rune-by-rune so a multi-byte reading is never split mid-codepoint.
func (u *UserDict) CommonPrefixSearch(query string) []dict.Reading {
	u.mu.RLock()
	defer u.mu.RUnlock()
	var out []dict.Reading
	runes := []rune(query)
	for end := 1; end <= len(runes); end++ {
		candidate := string(runes[:end])
		if entries, ok := u.entries[candidate]; ok {
			out = append(out, dict.Reading{Reading: candidate, Entries: append([]dict.Entry(nil), entries...)})
		}
	}
	return out
}

// userRecord is the on-disk record for one registered (reading, surface) pair.
type userRecord struct {
	Reading string `msgpack:"reading"`
	Surface string `msgpack:"surface"`
}

const (
	userMagic        = "LXUW"
	userVersion byte = 1
)

var (
	ErrInvalidMagic       = fmt.Errorf("composite: invalid user-dict magic")
	ErrUnsupportedVersion = fmt.Errorf("composite: unsupported user-dict version")
)

// ToBytes serializes the user dictionary to the LXUW format: magic, version
// byte, then a msgpack-encoded list of (reading, surface) records.
func (u *UserDict) ToBytes() ([]byte, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	var records []userRecord
	for reading, entries := range u.entries {
		for _, e := range entries {
			records = append(records, userRecord{Reading: reading, Surface: e.Surface})
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Reading != records[j].Reading {
			return records[i].Reading < records[j].Reading
		}
		return records[i].Surface < records[j].Surface
	})

	body, err := msgpack.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("composite: encode user dict: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(userMagic)
	buf.WriteByte(userVersion)
	buf.Write(body)
	return buf.Bytes(), nil
}

// UserDictFromBytes parses the LXUW format into a fresh UserDict.
func UserDictFromBytes(data []byte) (*UserDict, error) {
	if len(data) < 5 {
		return nil, fmt.Errorf("composite: truncated user-dict header")
	}
	if string(data[:4]) != userMagic {
		return nil, ErrInvalidMagic
	}
	if data[4] != userVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, data[4], userVersion)
	}
	var records []userRecord
	if err := msgpack.Unmarshal(data[5:], &records); err != nil {
		return nil, fmt.Errorf("composite: decode user dict: %w", err)
	}
	u := NewUserDict()
	for _, r := range records {
		u.Register(r.Reading, r.Surface)
	}
	return u, nil
}

// OpenUserDict reads a LXUW file from disk.
func OpenUserDict(path string) (*UserDict, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("failed to read user dictionary %s: %v", path, err)
		return nil, err
	}
	return UserDictFromBytes(data)
}

// Save serializes and writes the user dictionary to disk.
func (u *UserDict) Save(path string) error {
	data, err := u.ToBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
