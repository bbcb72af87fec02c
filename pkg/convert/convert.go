// Package convert wires the lattice, Viterbi search, and post-processing
// pipeline into the four conversion entry points candidate strategies and
// the session layer call: plain and history-aware, single-best and N-best.
package convert

import (
	"github.com/bastiangx/lexcore/pkg/config"
	"github.com/bastiangx/lexcore/pkg/conn"
	"github.com/bastiangx/lexcore/pkg/dict"
	"github.com/bastiangx/lexcore/pkg/history"
	"github.com/bastiangx/lexcore/pkg/lattice"
	"github.com/bastiangx/lexcore/pkg/postprocess"
	"github.com/bastiangx/lexcore/pkg/viterbi"
)

// Convert returns the single best segmentation for kana, or nil if kana is
// empty.
func Convert(d dict.Dictionary, m *conn.Matrix, kana string, cfg *config.Config) []viterbi.ConvertedSegment {
	if kana == "" {
		return nil
	}
	costFn := viterbi.NewDefaultCostFunction(m, cfg.Costs.SegmentPenalty)
	lat := lattice.Build(d, kana, cfg)
	paths := viterbi.NBest(lat, costFn, 10)
	results := postprocess.Run(paths, lat, m, nil, 0, kana, 1, cfg)
	if len(results) == 0 {
		return nil
	}
	return results[0]
}

// ConvertNBest returns up to n distinct segmentations for kana, oversampling
// the Viterbi search 3x to give the reranker room to work with.
func ConvertNBest(d dict.Dictionary, m *conn.Matrix, kana string, n int, cfg *config.Config) [][]viterbi.ConvertedSegment {
	if kana == "" || n == 0 {
		return nil
	}
	costFn := viterbi.NewDefaultCostFunction(m, cfg.Costs.SegmentPenalty)
	lat := lattice.Build(d, kana, cfg)
	oversample := n * 3
	paths := viterbi.NBest(lat, costFn, oversample)
	return postprocess.Run(paths, lat, m, nil, 0, kana, n, cfg)
}

// ConvertWithHistory returns the single best segmentation for kana with
// history-aware reranking applied on top of a history-unaware Viterbi
// search, avoiding boost-induced lattice fragmentation.
func ConvertWithHistory(d dict.Dictionary, m *conn.Matrix, h *history.Store, kana string, now int64, cfg *config.Config) []viterbi.ConvertedSegment {
	if kana == "" {
		return nil
	}
	costFn := viterbi.NewDefaultCostFunction(m, cfg.Costs.SegmentPenalty)
	lat := lattice.Build(d, kana, cfg)
	paths := viterbi.NBest(lat, costFn, 30)
	results := postprocess.Run(paths, lat, m, h, now, kana, 1, cfg)
	if len(results) == 0 {
		return nil
	}
	return results[0]
}

// ConvertNBestWithHistory returns up to n history-reranked segmentations,
// oversampling to at least 50 paths so the reranker has enough diversity to
// surface learned candidates.
func ConvertNBestWithHistory(d dict.Dictionary, m *conn.Matrix, h *history.Store, kana string, n int, now int64, cfg *config.Config) [][]viterbi.ConvertedSegment {
	if kana == "" || n == 0 {
		return nil
	}
	costFn := viterbi.NewDefaultCostFunction(m, cfg.Costs.SegmentPenalty)
	lat := lattice.Build(d, kana, cfg)
	oversample := n * 3
	if oversample < 50 {
		oversample = 50
	}
	paths := viterbi.NBest(lat, costFn, oversample)
	return postprocess.Run(paths, lat, m, h, now, kana, n, cfg)
}
