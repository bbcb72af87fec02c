package history

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/lexcore/pkg/config"
	"github.com/vmihailenco/msgpack/v5"
)

// unigramRecord and bigramRecord are the on-disk shapes for LXUD: flattened
// out of the nested maps so they serialize without custom msgpack hooks.
type unigramRecord struct {
	Reading   string `msgpack:"reading"`
	Surface   string `msgpack:"surface"`
	Frequency uint32 `msgpack:"frequency"`
	LastUsed  int64  `msgpack:"last_used"`
}

type bigramRecord struct {
	PrevSurface string `msgpack:"prev_surface"`
	NextReading string `msgpack:"next_reading"`
	NextSurface string `msgpack:"next_surface"`
	Frequency   uint32 `msgpack:"frequency"`
	LastUsed    int64  `msgpack:"last_used"`
}

type onDisk struct {
	Unigrams []unigramRecord `msgpack:"unigrams"`
	Bigrams  []bigramRecord  `msgpack:"bigrams"`
}

const (
	historyMagic        = "LXUD"
	historyVersion byte = 1
)

var (
	// ErrInvalidMagic is returned when a file's header doesn't start with
	// the LXUD magic bytes.
	ErrInvalidMagic = fmt.Errorf("history: invalid history magic")
	// ErrUnsupportedVersion is returned for a version byte this build
	// doesn't know how to decode.
	ErrUnsupportedVersion = fmt.Errorf("history: unsupported history version")
)

// ToBytes serializes the store to the LXUD format: magic, version byte,
// then a msgpack-encoded (unigrams, bigrams) record pair.
func (s *Store) ToBytes() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data onDisk
	for reading, inner := range s.unigrams {
		for surface, e := range inner {
			data.Unigrams = append(data.Unigrams, unigramRecord{
				Reading: reading, Surface: surface,
				Frequency: e.Frequency, LastUsed: e.LastUsed,
			})
		}
	}
	for prev, inner := range s.bigrams {
		for bk, e := range inner {
			data.Bigrams = append(data.Bigrams, bigramRecord{
				PrevSurface: prev, NextReading: bk.nextReading, NextSurface: bk.nextSurface,
				Frequency: e.Frequency, LastUsed: e.LastUsed,
			})
		}
	}

	body, err := msgpack.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("history: encode: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(historyMagic)
	buf.WriteByte(historyVersion)
	buf.Write(body)
	return buf.Bytes(), nil
}

// FromBytes parses the LXUD format into a fresh Store tuned by cfg.
func FromBytes(raw []byte, cfg *config.Config) (*Store, error) {
	if len(raw) < 5 {
		return nil, fmt.Errorf("history: truncated header")
	}
	if string(raw[:4]) != historyMagic {
		return nil, ErrInvalidMagic
	}
	if raw[4] != historyVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, raw[4], historyVersion)
	}
	var data onDisk
	if err := msgpack.Unmarshal(raw[5:], &data); err != nil {
		return nil, fmt.Errorf("history: decode: %w", err)
	}
	s := New(cfg)
	for _, r := range data.Unigrams {
		inner, ok := s.unigrams[r.Reading]
		if !ok {
			inner = make(map[string]Entry)
			s.unigrams[r.Reading] = inner
		}
		inner[r.Surface] = Entry{Frequency: r.Frequency, LastUsed: r.LastUsed}
	}
	for _, r := range data.Bigrams {
		inner, ok := s.bigrams[r.PrevSurface]
		if !ok {
			inner = make(map[bigramKey]Entry)
			s.bigrams[r.PrevSurface] = inner
		}
		inner[bigramKey{r.NextReading, r.NextSurface}] = Entry{Frequency: r.Frequency, LastUsed: r.LastUsed}
	}
	return s, nil
}

// Open reads a LXUD checkpoint from disk, returning an empty store tuned by
// cfg if the file does not exist.
func Open(path string, cfg *config.Config) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(cfg), nil
		}
		log.Errorf("failed to read history checkpoint %s: %v", path, err)
		return nil, err
	}
	return FromBytes(raw, cfg)
}

// Save atomically writes the store to path: encode, write to a temp file in
// the same directory, then rename over the destination.
func (s *Store) Save(path string) error {
	data, err := s.ToBytes()
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("history: write temp checkpoint: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("history: rename checkpoint: %w", err)
	}
	return nil
}

// walPathFor derives the WAL sidecar path for a checkpoint path, mirroring
// the checkpoint's extension being replaced with ".lxud.wal".
func walPathFor(checkpointPath string) string {
	ext := filepath.Ext(checkpointPath)
	base := checkpointPath[:len(checkpointPath)-len(ext)]
	return base + ".lxud.wal"
}
