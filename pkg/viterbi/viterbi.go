// Package viterbi runs N-best Viterbi search over a lattice, scoring paths
// with word costs plus connection-matrix transition costs.
package viterbi

import (
	"sort"

	"github.com/bastiangx/lexcore/internal/logging"
	"github.com/bastiangx/lexcore/pkg/conn"
	"github.com/bastiangx/lexcore/pkg/lattice"
)

var log = logging.New("viterbi")

// ConvertedSegment is a public conversion result segment.
type ConvertedSegment struct {
	Reading string
	Surface string
}

// RichSegment carries POS metadata needed by postprocess, in addition to
// the plain reading/surface pair.
type RichSegment struct {
	Reading  string
	Surface  string
	LeftID   uint16
	RightID  uint16
	WordCost int16
}

// ScoredPath is one N-best Viterbi result, with segments still carrying POS
// metadata so the postprocess stage can rerank and regroup it.
type ScoredPath struct {
	Segments    []RichSegment
	ViterbiCost int64
}

// Single builds a one-segment path with no POS metadata, for
// rewriter-generated candidates that bypass the lattice entirely.
func Single(reading, surface string, cost int64) ScoredPath {
	return ScoredPath{
		Segments:    []RichSegment{{Reading: reading, Surface: surface}},
		ViterbiCost: cost,
	}
}

// IntoSegments drops POS metadata, producing the public result shape.
func (p ScoredPath) IntoSegments() []ConvertedSegment {
	out := make([]ConvertedSegment, len(p.Segments))
	for i, s := range p.Segments {
		out[i] = ConvertedSegment{Reading: s.Reading, Surface: s.Surface}
	}
	return out
}

// SurfaceKey concatenates every segment's surface, used to deduplicate
// paths that realize to the same displayed string via different segmentations.
func (p ScoredPath) SurfaceKey() string {
	var b []byte
	for _, s := range p.Segments {
		b = append(b, s.Surface...)
	}
	return string(b)
}

// CostFunction scores lattice nodes and transitions during Viterbi search.
type CostFunction interface {
	WordCost(node *lattice.Node) int64
	TransitionCost(prev, next *lattice.Node) int64
	BOSCost(node *lattice.Node) int64
	EOSCost(node *lattice.Node) int64
}

// ConnCost looks up the connection cost between two ids, returning 0 if no
// matrix is provided.
func ConnCost(m *conn.Matrix, left, right uint16) int64 {
	if m == nil {
		return 0
	}
	return int64(m.Cost(left, right))
}

// DefaultCostFunction scores using word costs plus an optional connection
// matrix for transitions.
type DefaultCostFunction struct {
	Conn          *conn.Matrix
	SegmentPenalty int64
}

// NewDefaultCostFunction builds a DefaultCostFunction.
func NewDefaultCostFunction(m *conn.Matrix, segmentPenalty int64) *DefaultCostFunction {
	return &DefaultCostFunction{Conn: m, SegmentPenalty: segmentPenalty}
}

// WordCost is node.cost plus a segment penalty, halved for function words
// (penalty halved, not the whole word cost).
func (f *DefaultCostFunction) WordCost(node *lattice.Node) int64 {
	isFW := f.Conn != nil && f.Conn.IsFunctionWord(node.LeftID)
	penalty := f.SegmentPenalty
	if isFW {
		penalty /= 2
	}
	return int64(node.Cost) + penalty
}

// TransitionCost looks up the connection cost from prev's right id to
// next's left id.
func (f *DefaultCostFunction) TransitionCost(prev, next *lattice.Node) int64 {
	return ConnCost(f.Conn, prev.RightID, next.LeftID)
}

// BOSCost is the connection cost from the beginning-of-sentence id (0) to
// node's left id.
func (f *DefaultCostFunction) BOSCost(node *lattice.Node) int64 {
	return ConnCost(f.Conn, 0, node.LeftID)
}

// EOSCost is the connection cost from node's right id to the
// end-of-sentence id (0).
func (f *DefaultCostFunction) EOSCost(node *lattice.Node) int64 {
	return ConnCost(f.Conn, node.RightID, 0)
}

// PrefixSegment is one fixed (start, end, surface) span that a constrained
// search must realize exactly as given.
type PrefixSegment struct {
	Start, End int
	Surface    string
}

// PrefixConstrainedCostFunction wraps a DefaultCostFunction but forces a
// prohibitive cost on any node that overlaps the constrained prefix region
// without matching one of its fixed segments exactly. Used for speculative
// decoding, where a previously committed prefix must remain fixed while the
// suffix is explored freely.
type PrefixConstrainedCostFunction struct {
	Inner      *DefaultCostFunction
	Fixed      []PrefixSegment
	PrefixEnd  int // char position where the enforced prefix ends
}

// NewPrefixConstrainedCostFunction builds a constrained cost function from
// a list of fixed segments covering [0, prefixEnd).
func NewPrefixConstrainedCostFunction(inner *DefaultCostFunction, fixed []PrefixSegment, prefixEnd int) *PrefixConstrainedCostFunction {
	return &PrefixConstrainedCostFunction{Inner: inner, Fixed: fixed, PrefixEnd: prefixEnd}
}

const prohibitiveCost int64 = 1 << 40

// allowed reports whether node exactly matches one of the fixed prefix
// segments, or lies entirely outside the constrained region.
func (f *PrefixConstrainedCostFunction) allowed(node *lattice.Node) bool {
	if node.Start >= f.PrefixEnd {
		return true
	}
	for _, seg := range f.Fixed {
		if seg.Start == node.Start && seg.End == node.End && seg.Surface == node.Surface {
			return true
		}
	}
	return false
}

// WordCost is the inner cost function's word cost, or a prohibitive cost
// for any node that doesn't match the enforced prefix segmentation.
func (f *PrefixConstrainedCostFunction) WordCost(node *lattice.Node) int64 {
	if !f.allowed(node) {
		return prohibitiveCost
	}
	return f.Inner.WordCost(node)
}

func (f *PrefixConstrainedCostFunction) TransitionCost(prev, next *lattice.Node) int64 {
	return f.Inner.TransitionCost(prev, next)
}

func (f *PrefixConstrainedCostFunction) BOSCost(node *lattice.Node) int64 {
	return f.Inner.BOSCost(node)
}

func (f *PrefixConstrainedCostFunction) EOSCost(node *lattice.Node) int64 {
	return f.Inner.EOSCost(node)
}

// kEntry is one entry in a node's top-K list: accumulated cost plus a
// backpointer to the predecessor node and the rank within its list.
type kEntry struct {
	cost     int64
	hasPrev  bool
	prevIdx  int
	prevRank int
}

// insertTopK inserts entry into list, keeping it sorted ascending by cost
// and truncated to k entries. This is a sorted-slice insert rather than a
// heap: backtrace relies on prevRank indexing into a predecessor's
// finalized, stable-order list, which a heap's reordering would break.
func insertTopK(list []kEntry, k int, entry kEntry) []kEntry {
	pos := sort.Search(len(list), func(i int) bool { return list[i].cost > entry.cost })
	if pos >= k {
		return list
	}
	list = append(list, kEntry{})
	copy(list[pos+1:], list[pos:])
	list[pos] = entry
	if len(list) > k {
		list = list[:k]
	}
	return list
}

// NBest runs N-best Viterbi over lat using costFn, returning up to n
// distinct ScoredPaths (by surface string) sorted best-cost-first.
func NBest(lat *lattice.Lattice, costFn CostFunction, n int) []ScoredPath {
	charCount := lat.CharCount
	if charCount == 0 || n == 0 {
		return nil
	}

	numNodes := len(lat.Nodes)
	topK := make([][]kEntry, numNodes)

	for _, idx := range lat.NodesByStart[0] {
		node := &lat.Nodes[idx]
		cost := costFn.WordCost(node) + costFn.BOSCost(node)
		topK[idx] = append(topK[idx], kEntry{cost: cost, hasPrev: false})
	}

	for pos := 1; pos < charCount; pos++ {
		for _, nextIdx := range lat.NodesByStart[pos] {
			nextNode := &lat.Nodes[nextIdx]
			word := costFn.WordCost(nextNode)

			for _, prevIdx := range lat.NodesByEnd[pos] {
				if len(topK[prevIdx]) == 0 {
					continue
				}
				prevNode := &lat.Nodes[prevIdx]
				transition := costFn.TransitionCost(prevNode, nextNode)

				for rank := range topK[prevIdx] {
					prevCost := topK[prevIdx][rank].cost
					total := prevCost + transition + word
					topK[nextIdx] = insertTopK(topK[nextIdx], n, kEntry{
						cost:     total,
						hasPrev:  true,
						prevIdx:  prevIdx,
						prevRank: rank,
					})
				}
			}
		}
	}

	type eosEntry struct {
		cost    int64
		nodeIdx int
		rank    int
	}
	var eosEntries []eosEntry
	for _, nodeIdx := range lat.NodesByEnd[charCount] {
		node := &lat.Nodes[nodeIdx]
		eos := costFn.EOSCost(node)
		for rank, entry := range topK[nodeIdx] {
			eosEntries = append(eosEntries, eosEntry{cost: entry.cost + eos, nodeIdx: nodeIdx, rank: rank})
		}
	}
	sort.Slice(eosEntries, func(i, j int) bool { return eosEntries[i].cost < eosEntries[j].cost })

	var results []ScoredPath
	seenSurfaces := make(map[string]bool)
	for _, e := range eosEntries {
		if len(results) >= n {
			break
		}
		segments := backtrace(topK, e.nodeIdx, e.rank, lat)
		path := ScoredPath{Segments: segments, ViterbiCost: e.cost}
		key := path.SurfaceKey()
		if !seenSurfaces[key] {
			seenSurfaces[key] = true
			results = append(results, path)
		}
	}

	if len(results) > 0 {
		log.Debugf("n-best viterbi: result_count=%d best_cost=%d", len(results), results[0].ViterbiCost)
	}
	return results
}

func backtrace(topK [][]kEntry, endIdx, endRank int, lat *lattice.Lattice) []RichSegment {
	var pathIndices []int
	curIdx, curRank := endIdx, endRank
	for {
		pathIndices = append(pathIndices, curIdx)
		entry := topK[curIdx][curRank]
		if !entry.hasPrev {
			break
		}
		curRank = entry.prevRank
		curIdx = entry.prevIdx
	}
	for i, j := 0, len(pathIndices)-1; i < j; i, j = i+1, j-1 {
		pathIndices[i], pathIndices[j] = pathIndices[j], pathIndices[i]
	}

	segments := make([]RichSegment, len(pathIndices))
	for i, idx := range pathIndices {
		node := &lat.Nodes[idx]
		segments[i] = RichSegment{
			Reading:  node.Reading,
			Surface:  node.Surface,
			LeftID:   node.LeftID,
			RightID:  node.RightID,
			WordCost: node.Cost,
		}
	}
	return segments
}
