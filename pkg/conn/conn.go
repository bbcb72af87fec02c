// Package conn implements the connection cost matrix: (left_id, right_id)
// transition costs for Viterbi scoring, plus a per-id morpheme role table
// used for bunsetsu grouping.
package conn

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bastiangx/lexcore/internal/logging"
)

var log = logging.New("conn")

// Role classifies a POS id for morpheme grouping.
type Role byte

const (
	RoleContent Role = iota
	RoleFunction
	RoleSuffix
	RolePrefix
	RoleNonIndependent
	RolePronoun
	RolePersonName
)

const (
	// Magic is the LXCX file magic.
	Magic = "LXCX"
	// Version is the LXCX format version this package reads/writes.
	Version byte = 3
	// fixedHeaderSize is magic(4) + version(1) + num_ids(2) + fw_min(2) + fw_max(2),
	// all native-endian, before the per-id roles array.
	fixedHeaderSize = 4 + 1 + 2 + 2 + 2
)

var (
	ErrInvalidMagic       = fmt.Errorf("conn: invalid magic")
	ErrUnsupportedVersion = fmt.Errorf("conn: unsupported version")
	ErrInvalidHeader      = fmt.Errorf("conn: invalid header")
)

// Matrix maps (left_id, right_id) pairs to transition costs and tags each
// POS id with a role and an optional function-word id range. Immutable
// after construction; safe for concurrent reads.
type Matrix struct {
	numIDs uint16
	fwMin  uint16
	fwMax  uint16
	roles  []byte
	costs  []int16
}

// NewOwned builds a Matrix from an explicit cost grid. roles is padded with
// zeros (content word) up to numIDs length if shorter.
func NewOwned(numIDs, fwMin, fwMax uint16, roles []byte, costs []int16) *Matrix {
	padded := make([]byte, numIDs)
	copy(padded, roles)
	return &Matrix{numIDs: numIDs, fwMin: fwMin, fwMax: fwMax, roles: padded, costs: costs}
}

// Cost looks up the connection cost between two morpheme ids.
// Index: left*numIDs + right. Out-of-bounds returns 0.
func (m *Matrix) Cost(left, right uint16) int16 {
	idx := int(left)*int(m.numIDs) + int(right)
	if idx < 0 || idx >= len(m.costs) {
		return 0
	}
	return m.costs[idx]
}

// NumIDs returns the number of morpheme ids in this matrix.
func (m *Matrix) NumIDs() uint16 { return m.numIDs }

// IsFunctionWord reports whether id falls in the function-word range.
// Returns false when no range is set (fwMin == 0).
func (m *Matrix) IsFunctionWord(id uint16) bool {
	return m.fwMin != 0 && m.fwMin <= id && id <= m.fwMax
}

// Role returns the morpheme role for id. IDs beyond the roles table are
// RoleContent.
func (m *Matrix) Role(id uint16) Role {
	if int(id) >= len(m.roles) {
		return RoleContent
	}
	return Role(m.roles[id])
}

func (m *Matrix) IsSuffix(id uint16) bool         { return m.Role(id) == RoleSuffix }
func (m *Matrix) IsPrefix(id uint16) bool         { return m.Role(id) == RolePrefix }
func (m *Matrix) IsNonIndependent(id uint16) bool { return m.Role(id) == RoleNonIndependent }

// FromText builds a Matrix from a text file in either Mozc (one cost per
// line, header is num_ids or "num_left num_right") or MeCab ("right_id
// left_id cost" triplets per line) format, auto-detected by peeking at the
// first data line's field count.
func FromText(text string) (*Matrix, error) {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, fmt.Errorf("conn: empty file")
	}
	header := strings.Fields(lines[0])
	var numIDs uint16
	switch len(header) {
	case 1:
		n, err := strconv.ParseUint(header[0], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("conn: invalid num_ids: %w", err)
		}
		numIDs = uint16(n)
	case 2:
		nl, err := strconv.ParseUint(header[0], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("conn: invalid num_left: %w", err)
		}
		nr, err := strconv.ParseUint(header[1], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("conn: invalid num_right: %w", err)
		}
		if nl != nr {
			return nil, fmt.Errorf("conn: num_left (%d) != num_right (%d)", nl, nr)
		}
		numIDs = uint16(nl)
	default:
		return nil, fmt.Errorf("conn: expected 1 or 2 values in header, got %d", len(header))
	}

	rest := lines[1:]
	i := 0
	for i < len(rest) && strings.TrimSpace(rest[i]) == "" {
		i++
	}
	isTriplet := i < len(rest) && len(strings.Fields(rest[i])) == 3
	expected := int(numIDs) * int(numIDs)

	var costs []int16
	if isTriplet {
		costs = make([]int16, expected)
		for _, line := range rest[i:] {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			f := strings.Fields(line)
			if len(f) != 3 {
				return nil, fmt.Errorf("conn: expected 3 fields, got %d", len(f))
			}
			rightID, err := strconv.Atoi(f[0])
			if err != nil {
				return nil, fmt.Errorf("conn: right_id: %w", err)
			}
			leftID, err := strconv.Atoi(f[1])
			if err != nil {
				return nil, fmt.Errorf("conn: left_id: %w", err)
			}
			cost, err := strconv.ParseInt(f[2], 10, 16)
			if err != nil {
				return nil, fmt.Errorf("conn: cost: %w", err)
			}
			idx := leftID*int(numIDs) + rightID
			if idx < 0 || idx >= expected {
				return nil, fmt.Errorf("conn: index out of bounds: (%d, %d)", rightID, leftID)
			}
			costs[idx] = int16(cost)
		}
	} else {
		for _, line := range rest[i:] {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			cost, err := strconv.ParseInt(line, 10, 16)
			if err != nil {
				return nil, fmt.Errorf("conn: invalid cost %q: %w", line, err)
			}
			costs = append(costs, int16(cost))
		}
		if len(costs) != expected {
			return nil, fmt.Errorf("conn: expected %d costs, got %d", expected, len(costs))
		}
	}

	return NewOwned(numIDs, 0, 0, nil, costs), nil
}

// FromTextWithMetadata is FromText plus a function-word id range.
func FromTextWithMetadata(text string, fwMin, fwMax uint16) (*Matrix, error) {
	m, err := FromText(text)
	if err != nil {
		return nil, err
	}
	m.fwMin, m.fwMax = fwMin, fwMax
	return m, nil
}

// FromTextWithRoles is FromText plus a function-word range and per-id roles.
func FromTextWithRoles(text string, fwMin, fwMax uint16, roles []byte) (*Matrix, error) {
	m, err := FromText(text)
	if err != nil {
		return nil, err
	}
	if len(roles) > int(m.numIDs) {
		return nil, ErrInvalidHeader
	}
	m.fwMin, m.fwMax = fwMin, fwMax
	padded := make([]byte, m.numIDs)
	copy(padded, roles)
	m.roles = padded
	return m, nil
}

func validateHeader(data []byte) (numIDs, fwMin, fwMax uint16, roles []byte, hdrSize int, err error) {
	if len(data) < fixedHeaderSize {
		return 0, 0, 0, nil, 0, ErrInvalidHeader
	}
	if string(data[:4]) != Magic {
		return 0, 0, 0, nil, 0, ErrInvalidMagic
	}
	version := data[4]
	if version != Version {
		return 0, 0, 0, nil, 0, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, version, Version)
	}
	numIDs = binary.NativeEndian.Uint16(data[5:7])
	fwMin = binary.NativeEndian.Uint16(data[7:9])
	fwMax = binary.NativeEndian.Uint16(data[9:11])
	rolesEnd := fixedHeaderSize + int(numIDs)
	if len(data) < rolesEnd {
		return 0, 0, 0, nil, 0, ErrInvalidHeader
	}
	roles = append([]byte(nil), data[fixedHeaderSize:rolesEnd]...)
	expectedBytes := int(numIDs) * int(numIDs) * 2
	actualBytes := len(data) - rolesEnd
	if actualBytes != expectedBytes {
		return 0, 0, 0, nil, 0, fmt.Errorf("conn: expected %d bytes of cost data, got %d", expectedBytes, actualBytes)
	}
	return numIDs, fwMin, fwMax, roles, rolesEnd, nil
}

// FromBytes parses the compiled LXCX binary format.
func FromBytes(data []byte) (*Matrix, error) {
	numIDs, fwMin, fwMax, roles, hdrSize, err := validateHeader(data)
	if err != nil {
		return nil, err
	}
	body := data[hdrSize:]
	costs := make([]int16, len(body)/2)
	for i := range costs {
		costs[i] = int16(binary.NativeEndian.Uint16(body[i*2 : i*2+2]))
	}
	return NewOwned(numIDs, fwMin, fwMax, roles, costs), nil
}

// ToBytes serializes the matrix to the compiled LXCX binary format.
func (m *Matrix) ToBytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(Magic)
	buf.WriteByte(Version)
	var u16 [2]byte
	binary.NativeEndian.PutUint16(u16[:], m.numIDs)
	buf.Write(u16[:])
	binary.NativeEndian.PutUint16(u16[:], m.fwMin)
	buf.Write(u16[:])
	binary.NativeEndian.PutUint16(u16[:], m.fwMax)
	buf.Write(u16[:])
	buf.Write(m.roles)
	for _, c := range m.costs {
		binary.NativeEndian.PutUint16(u16[:], uint16(c))
		buf.Write(u16[:])
	}
	return buf.Bytes()
}

// Open reads and decodes an LXCX file from disk.
func Open(path string) (*Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("failed to read connection matrix %s: %v", path, err)
		return nil, err
	}
	return FromBytes(data)
}

// Save serializes and writes the matrix to disk.
func (m *Matrix) Save(path string) error {
	return os.WriteFile(path, m.ToBytes(), 0644)
}
