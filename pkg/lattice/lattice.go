// Package lattice builds the conversion lattice: every dictionary-backed
// segmentation of a kana string, indexed by start and end position so the
// Viterbi search in pkg/viterbi can walk it efficiently.
package lattice

import (
	"github.com/bastiangx/lexcore/internal/logging"
	"github.com/bastiangx/lexcore/pkg/config"
	"github.com/bastiangx/lexcore/pkg/dict"
)

var log = logging.New("lattice")

// Node is a single edge in the lattice: a dictionary entry spanning
// [Start, End) characters of the input.
type Node struct {
	// Start is the char index (inclusive) this node begins at.
	Start int
	// End is the char index (exclusive) this node ends at.
	End int
	// Reading is the kana substring this node covers.
	Reading string
	// Surface is the displayed form (kanji, etc.) for this node.
	Surface string
	// Cost is the word cost; lower is more preferred.
	Cost int16
	// LeftID is the left boundary morpheme id.
	LeftID uint16
	// RightID is the right boundary morpheme id.
	RightID uint16
}

// Lattice holds every candidate segmentation of an input kana string.
type Lattice struct {
	// Input is the original kana string the lattice was built from.
	Input string
	// Nodes holds every lattice node.
	Nodes []Node
	// NodesByStart[i] lists indices into Nodes of nodes starting at char i.
	NodesByStart [][]int
	// NodesByEnd[i] lists indices into Nodes of nodes ending at char i.
	NodesByEnd [][]int
	// CharCount is the number of characters (runes) in Input.
	CharCount int
}

// Build constructs a lattice from a kana string using common-prefix-search
// at every starting position: one trie walk per position finds all matching
// dictionary entries instead of a lookup per candidate length.
//
// Positions not covered by any single-character dictionary entry get a
// 1-char fallback node (cost = unknownWordCost, ids = 0) so every position
// remains reachable even for kana the dictionary has never seen.
func Build(d dict.Dictionary, kana string, cfg *config.Config) *Lattice {
	runes := []rune(kana)
	charCount := len(runes)

	byteOffsets := make([]int, charCount+1)
	off := 0
	for i, r := range runes {
		byteOffsets[i] = off
		off += len(string(r))
	}
	byteOffsets[charCount] = off

	var nodes []Node
	nodesByEnd := make([][]int, charCount+1)
	nodesByStart := make([][]int, charCount)

	unknownCost := int16(10000)
	if cfg != nil {
		unknownCost = int16(cfg.Costs.UnknownWordCost)
	}

	for start := 0; start < charCount; start++ {
		hasSingleCharMatch := false
		suffix := kana[byteOffsets[start]:]
		matches := d.CommonPrefixSearch(suffix)

		for _, result := range matches {
			readingCharCount := len([]rune(result.Reading))
			end := start + readingCharCount
			for _, entry := range result.Entries {
				idx := len(nodes)
				nodes = append(nodes, Node{
					Start:   start,
					End:     end,
					Reading: result.Reading,
					Surface: entry.Surface,
					Cost:    entry.Cost,
					LeftID:  entry.LeftID,
					RightID: entry.RightID,
				})
				nodesByEnd[end] = append(nodesByEnd[end], idx)
				nodesByStart[start] = append(nodesByStart[start], idx)
				if readingCharCount == 1 {
					hasSingleCharMatch = true
				}
			}
		}

		if !hasSingleCharMatch {
			ch := string(runes[start])
			idx := len(nodes)
			nodes = append(nodes, Node{
				Start:   start,
				End:     start + 1,
				Reading: ch,
				Surface: ch,
				Cost:    unknownCost,
				LeftID:  0,
				RightID: 0,
			})
			nodesByEnd[start+1] = append(nodesByEnd[start+1], idx)
			nodesByStart[start] = append(nodesByStart[start], idx)
		}
	}

	log.Debugf("built lattice: char_count=%d node_count=%d", charCount, len(nodes))
	return &Lattice{
		Input:        kana,
		Nodes:        nodes,
		NodesByStart: nodesByStart,
		NodesByEnd:   nodesByEnd,
		CharCount:    charCount,
	}
}
