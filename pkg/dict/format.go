package dict

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bastiangx/lexcore/internal/logging"
)

var log = logging.New("dict")

// Magic and version constants for the LXDX trie-dictionary binary format.
const (
	Magic        = "LXDX"
	Version byte = 2
	// headerSize is magic(4) + version(1) + trie_len(4) + values_len(4).
	headerSize = 4 + 1 + 4 + 4
)

// Header errors, returned from Open/Decode on corrupt or unsupported input.
var (
	ErrInvalidMagic        = fmt.Errorf("dict: invalid magic")
	ErrUnsupportedVersion  = fmt.Errorf("dict: unsupported version")
	ErrInvalidHeader       = fmt.Errorf("dict: invalid header")
)

type header struct {
	trieLen   uint32
	valuesLen uint32
}

func readHeader(r io.Reader) (header, error) {
	var h header
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		log.Errorf("failed to read LXDX header: %v", err)
		return h, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	if string(buf[0:4]) != Magic {
		return h, ErrInvalidMagic
	}
	if buf[4] != Version {
		return h, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, buf[4], Version)
	}
	h.trieLen = binary.LittleEndian.Uint32(buf[5:9])
	h.valuesLen = binary.LittleEndian.Uint32(buf[9:13])
	return h, nil
}

func writeHeader(w io.Writer, trieLen, valuesLen uint32) error {
	buf := make([]byte, headerSize)
	copy(buf[0:4], Magic)
	buf[4] = Version
	binary.LittleEndian.PutUint32(buf[5:9], trieLen)
	binary.LittleEndian.PutUint32(buf[9:13], valuesLen)
	_, err := w.Write(buf)
	return err
}
