package postprocess

import (
	"github.com/bastiangx/lexcore/pkg/conn"
	"github.com/bastiangx/lexcore/pkg/viterbi"
)

// GroupSegments fuses morpheme-level segments into phrase-level segments
// (bunsetsu) using the connection matrix's per-id role table:
//   - Function word or Suffix: merges into the preceding group.
//   - Prefix: starts a new group that will absorb the next content word.
//   - Content word: merges into a pending prefix if one exists, else starts
//     a new group.
//
// Leading function words or suffixes with no preceding group stay standalone.
func GroupSegments(segments []viterbi.RichSegment, m *conn.Matrix) []viterbi.RichSegment {
	if len(segments) <= 1 {
		return segments
	}

	var grouped []viterbi.RichSegment
	var current *viterbi.RichSegment
	pendingPrefix := false

	for _, seg := range segments {
		role := m.Role(seg.LeftID)
		isFW := m.IsFunctionWord(seg.LeftID)
		attachToPrev := isFW || role == conn.RoleFunction || role == conn.RoleSuffix

		switch {
		case attachToPrev:
			if current != nil {
				current.Reading += seg.Reading
				current.Surface += seg.Surface
				current.RightID = seg.RightID
			} else {
				grouped = append(grouped, seg)
			}
		case role == conn.RolePrefix:
			if current != nil {
				grouped = append(grouped, *current)
			}
			s := seg
			current = &s
			pendingPrefix = true
		default:
			if pendingPrefix && current != nil {
				current.Reading += seg.Reading
				current.Surface += seg.Surface
				current.RightID = seg.RightID
				pendingPrefix = false
			} else {
				if current != nil {
					grouped = append(grouped, *current)
				}
				s := seg
				current = &s
			}
		}
	}

	if current != nil {
		grouped = append(grouped, *current)
	}
	return grouped
}
