package candidates

import (
	"github.com/bastiangx/lexcore/pkg/conn"
	"github.com/bastiangx/lexcore/pkg/config"
	"github.com/bastiangx/lexcore/pkg/dict"
	"github.com/bastiangx/lexcore/pkg/history"
)

// StrategyKind discriminates the three candidate strategies. Dispatch tags
// are exposed to the session layer's async request protocol so a worker
// picks the right generator without round-tripping through an interface
// value.
type StrategyKind uint8

const (
	StrategyStandard   StrategyKind = 0
	StrategyPredictive StrategyKind = 1
	StrategyNeural     StrategyKind = 2
)

// DispatchTag returns the wire-stable tag for this strategy.
func (k StrategyKind) DispatchTag() uint8 {
	return uint8(k)
}

// Scorer is the language-model collaborator a Neural strategy delegates to
// for speculative decoding. It is out of scope for this module and is
// described only via this interface point: a real implementation lives in
// a separate neural-inference collaborator.
type Scorer interface {
	// BestSurface returns the scorer's single best completion for reading
	// given the preceding context, or an error if scoring failed.
	BestSurface(context, reading string) (string, error)
}

// Strategy is a tagged union over the three candidate generators. Standard
// and Predictive are stateless; Neural carries the scorer and preceding
// context a speculative decode needs.
type Strategy struct {
	kind    StrategyKind
	scorer  Scorer
	context string
}

// NewStandardStrategy returns the Standard candidate strategy.
func NewStandardStrategy() Strategy { return Strategy{kind: StrategyStandard} }

// NewPredictiveStrategy returns the Predictive candidate strategy.
func NewPredictiveStrategy() Strategy { return Strategy{kind: StrategyPredictive} }

// NewNeuralStrategy returns the Neural candidate strategy, backed by scorer
// and the given preceding context.
func NewNeuralStrategy(scorer Scorer, context string) Strategy {
	return Strategy{kind: StrategyNeural, scorer: scorer, context: context}
}

// Kind reports which strategy this is, for dispatch-tag lookups.
func (s Strategy) Kind() StrategyKind { return s.kind }

// Generate runs the selected strategy.
func (s Strategy) Generate(d dict.Dictionary, m *conn.Matrix, h *history.Store, reading string, maxResults int, now int64, cfg *config.Config) Response {
	switch s.kind {
	case StrategyStandard:
		return GenerateStandard(d, m, h, reading, maxResults, now, cfg)
	case StrategyPredictive:
		return GeneratePredictive(d, m, h, reading, maxResults, now, cfg)
	case StrategyNeural:
		return generateNeural(s.scorer, d, m, h, s.context, reading, maxResults, now, cfg)
	default:
		return Response{}
	}
}

// generateNeural runs the standard candidate generator, then asks scorer
// for its single best completion and splices it in as candidate #0. Any
// scorer failure falls back to the plain standard result.
func generateNeural(scorer Scorer, d dict.Dictionary, m *conn.Matrix, h *history.Store, context, reading string, maxResults int, now int64, cfg *config.Config) Response {
	base := GenerateStandard(d, m, h, reading, maxResults, now, cfg)
	if scorer == nil {
		return base
	}
	best, err := scorer.BestSurface(context, reading)
	if err != nil || best == "" {
		log.Warnf("neural scorer failed, falling back to standard: %v", err)
		return base
	}
	surfaces := make([]string, 0, len(base.Surfaces)+1)
	surfaces = append(surfaces, best)
	for _, s := range base.Surfaces {
		if s != best {
			surfaces = append(surfaces, s)
		}
	}
	if len(surfaces) > maxResults {
		surfaces = surfaces[:maxResults]
	}
	return Response{Surfaces: surfaces, Paths: base.Paths}
}
