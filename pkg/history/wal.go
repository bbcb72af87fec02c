package history

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/bastiangx/lexcore/pkg/config"
	"github.com/vmihailenco/msgpack/v5"
)

// CompactThreshold is the default entry count at which a WAL should be
// checkpointed and truncated.
const CompactThreshold = 1000

// walEntry is one logged conversion commit: the chosen segments and the
// epoch second it was committed at.
type walEntry struct {
	Segments [][2]string `msgpack:"segments"`
	Time     int64       `msgpack:"timestamp"`
}

// WAL append-logs history commits between checkpoints, so a crash between
// saves loses at most the unreplayed tail of the log. Frames are
// length-prefixed and CRC-guarded; replay stops at the first truncated or
// corrupt frame rather than failing the whole file, since a torn write at
// the tail is expected after a crash.
type WAL struct {
	checkpointPath string
	walPath        string
	file           *os.File
	entryCount     int
}

// NewWAL derives the sidecar WAL path from checkpointPath. The WAL file
// itself is opened lazily on first Append.
func NewWAL(checkpointPath string) *WAL {
	return &WAL{checkpointPath: checkpointPath, walPath: walPathFor(checkpointPath)}
}

// Replay reads every valid frame in the WAL and records it into store,
// returning the number of frames applied.
func (w *WAL) Replay(store *Store) (int, error) {
	f, err := os.Open(w.walPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("history: open wal: %w", err)
	}
	defer f.Close()

	applied := 0
	header := make([]byte, 8)
	for {
		if _, err := io.ReadFull(f, header); err != nil {
			break
		}
		length := binary.LittleEndian.Uint32(header[0:4])
		wantCRC := binary.LittleEndian.Uint32(header[4:8])
		payload := make([]byte, length)
		if _, err := io.ReadFull(f, payload); err != nil {
			log.Warnf("wal: truncated frame at entry %d, stopping replay", applied)
			break
		}
		if crc32.ChecksumIEEE(payload) != wantCRC {
			log.Warnf("wal: checksum mismatch at entry %d, stopping replay", applied)
			break
		}
		var entry walEntry
		if err := msgpack.Unmarshal(payload, &entry); err != nil {
			log.Warnf("wal: undecodable frame at entry %d, stopping replay", applied)
			break
		}
		store.RecordPairs(entry.Segments, entry.Time)
		applied++
	}
	w.entryCount = applied
	return applied, nil
}

// Append logs one commit: (reading, surface) segments and the commit
// timestamp, as a length-prefixed, CRC32-guarded frame.
func (w *WAL) Append(segments [][2]string, timestamp int64) error {
	payload, err := msgpack.Marshal(walEntry{Segments: segments, Time: timestamp})
	if err != nil {
		return fmt.Errorf("history: encode wal entry: %w", err)
	}
	if w.file == nil {
		f, err := os.OpenFile(w.walPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("history: open wal for append: %w", err)
		}
		w.file = f
	}
	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[4:8], crc32.ChecksumIEEE(payload))
	if _, err := w.file.Write(header[:]); err != nil {
		return fmt.Errorf("history: write wal header: %w", err)
	}
	if _, err := w.file.Write(payload); err != nil {
		return fmt.Errorf("history: write wal payload: %w", err)
	}
	w.entryCount++
	return nil
}

// NeedsCompact reports whether the WAL has reached CompactThreshold
// entries and should be checkpointed and truncated.
func (w *WAL) NeedsCompact() bool {
	return w.entryCount >= CompactThreshold
}

// Truncate closes and recreates the WAL file, resetting the entry count.
// Call after a successful Store.Save checkpoint.
func (w *WAL) Truncate() error {
	if w.file != nil {
		w.file.Close()
		w.file = nil
	}
	f, err := os.OpenFile(w.walPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("history: truncate wal: %w", err)
	}
	f.Close()
	w.entryCount = 0
	return nil
}

// Close releases the WAL's open file handle, if any.
func (w *WAL) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// OpenWithWAL opens the checkpoint at checkpointPath, replays its WAL on
// top, and returns both the ready-to-use store and its WAL handle.
func OpenWithWAL(checkpointPath string, cfg *config.Config) (*Store, *WAL, error) {
	store, err := Open(checkpointPath, cfg)
	if err != nil {
		return nil, nil, err
	}
	wal := NewWAL(checkpointPath)
	applied, err := wal.Replay(store)
	if err != nil {
		return nil, nil, err
	}
	if applied > 0 {
		log.Infof("replayed %d history wal entries", applied)
	}
	return store, wal, nil
}
