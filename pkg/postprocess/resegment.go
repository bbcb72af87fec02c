package postprocess

import (
	"github.com/bastiangx/lexcore/pkg/lattice"
	"github.com/bastiangx/lexcore/pkg/viterbi"
)

// maxResegmentationsPerSurface bounds how many alternative segmentations of
// a given surface string resegment will enumerate, to keep the search
// bounded on pathological inputs.
const maxResegmentationsPerSurface = 6

// Resegment enumerates alternative segmentations of the same surface
// string already present in paths: splits that produce the same
// concatenated text via a different sequence of lattice nodes. The
// reranker then compares compound vs. fragmented forms of the same text on
// equal footing.
//
// Each alternative is scored with the same word/transition/bos/eos costs
// Viterbi itself uses, so its cost is directly comparable to the paths
// already found.
func Resegment(paths []viterbi.ScoredPath, lat *lattice.Lattice, costFn viterbi.CostFunction) []viterbi.ScoredPath {
	seenSurface := make(map[string]bool)
	seenBoundary := make(map[string]bool)
	for _, p := range paths {
		seenSurface[p.SurfaceKey()] = true
		seenBoundary[boundaryKey(p)] = true
	}

	var extra []viterbi.ScoredPath
	for surface := range seenSurface {
		found := findAlternateSegmentations(lat, costFn, surface, seenBoundary, maxResegmentationsPerSurface)
		extra = append(extra, found...)
	}
	return extra
}

// boundaryKey and indicesBoundaryKey must agree on the key for the same
// segmentation: both encode each segment's reading length in runes (not
// bytes), since a multi-byte kana reading would otherwise produce a
// different key depending on which side computed it.
func boundaryKey(p viterbi.ScoredPath) string {
	var b []byte
	for _, s := range p.Segments {
		b = append(b, byte(len([]rune(s.Reading))), ':')
	}
	return string(b)
}

type resegState struct {
	kanaPos    int
	surfaceIdx int
}

// findAlternateSegmentations searches the lattice for node chains spanning
// the whole kana input whose concatenated surface equals target, skipping
// any chain whose segment-boundary signature is already known.
func findAlternateSegmentations(lat *lattice.Lattice, costFn viterbi.CostFunction, target string, seenBoundary map[string]bool, limit int) []viterbi.ScoredPath {
	targetRunes := []rune(target)
	var results []viterbi.ScoredPath
	visited := make(map[resegState]bool)

	var nodeIndices []int
	var cost int64

	var dfs func(kanaPos, surfaceIdx int)
	dfs = func(kanaPos, surfaceIdx int) {
		if len(results) >= limit {
			return
		}
		if kanaPos == lat.CharCount && surfaceIdx == len(targetRunes) {
			key := indicesBoundaryKey(lat, nodeIndices)
			if !seenBoundary[key] {
				seenBoundary[key] = true
				total := cost
				if len(nodeIndices) > 0 {
					total += costFn.BOSCost(&lat.Nodes[nodeIndices[0]])
					total += costFn.EOSCost(&lat.Nodes[nodeIndices[len(nodeIndices)-1]])
				}
				segments := make([]viterbi.RichSegment, len(nodeIndices))
				for i, idx := range nodeIndices {
					n := &lat.Nodes[idx]
					segments[i] = viterbi.RichSegment{
						Reading: n.Reading, Surface: n.Surface,
						LeftID: n.LeftID, RightID: n.RightID, WordCost: n.Cost,
					}
				}
				results = append(results, viterbi.ScoredPath{Segments: segments, ViterbiCost: total})
			}
			return
		}
		if kanaPos >= lat.CharCount || surfaceIdx >= len(targetRunes) {
			return
		}
		state := resegState{kanaPos, surfaceIdx}
		if visited[state] {
			return
		}
		visited[state] = true

		for _, idx := range lat.NodesByStart[kanaPos] {
			node := &lat.Nodes[idx]
			surfaceRunes := []rune(node.Surface)
			end := surfaceIdx + len(surfaceRunes)
			if end > len(targetRunes) {
				continue
			}
			if string(targetRunes[surfaceIdx:end]) != node.Surface {
				continue
			}
			word := costFn.WordCost(node)
			var transition int64
			if len(nodeIndices) > 0 {
				transition = costFn.TransitionCost(&lat.Nodes[nodeIndices[len(nodeIndices)-1]], node)
			}
			nodeIndices = append(nodeIndices, idx)
			cost += word + transition
			dfs(node.End, end)
			cost -= word + transition
			nodeIndices = nodeIndices[:len(nodeIndices)-1]
			if len(results) >= limit {
				return
			}
		}
	}

	dfs(0, 0)
	return results
}

func indicesBoundaryKey(lat *lattice.Lattice, indices []int) string {
	var b []byte
	for _, idx := range indices {
		b = append(b, byte(len([]rune(lat.Nodes[idx].Reading))), ':')
	}
	return string(b)
}
