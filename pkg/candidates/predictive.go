package candidates

import (
	"strings"

	"github.com/bastiangx/lexcore/pkg/conn"
	"github.com/bastiangx/lexcore/pkg/config"
	"github.com/bastiangx/lexcore/pkg/dict"
	"github.com/bastiangx/lexcore/pkg/history"
)

// chainBigramPhrase greedily follows the top-scoring bigram successor from
// startSurface up to maxChain steps, stopping on cycle detection (a
// successor surface already visited in this chain). Returns the extended
// phrase, or "" if no successor chained at all.
func chainBigramPhrase(h *history.Store, startSurface string, maxChain int, now int64) string {
	var result strings.Builder
	result.WriteString(startSurface)
	current := startSurface
	visited := map[string]bool{startSurface: true}
	extended := false

	for i := 0; i < maxChain; i++ {
		successors := h.BigramSuccessors(current, now)
		if len(successors) == 0 {
			break
		}
		next := successors[0]
		if visited[next.Surface] {
			break
		}
		visited[next.Surface] = true
		result.WriteString(next.Surface)
		current = next.Surface
		extended = true
	}

	if !extended {
		return ""
	}
	return result.String()
}

// GeneratePredictive builds on GenerateStandard: for each N-best path, it
// takes the last segment's surface and chains bigram successors to build
// progressively longer multi-word completions, Copilot-style. Without
// history it behaves exactly as GenerateStandard.
func GeneratePredictive(d dict.Dictionary, m *conn.Matrix, h *history.Store, reading string, maxResults int, now int64, cfg *config.Config) Response {
	if reading == "" {
		return Response{}
	}
	if isPunctuation(reading) {
		return generatePunctuationCandidates(d, h, reading, maxResults, now)
	}

	base := generateNormalCandidates(d, m, h, reading, maxResults, now, cfg)
	if h == nil {
		return base
	}

	maxChain := cfg.Candidates.MaxChainSteps
	type chained struct {
		phrase string
		length int
	}
	var chainedPhrases []chained
	chainedStarts := make(map[string]bool)

	for _, path := range base.Paths {
		if len(path) == 0 {
			continue
		}
		lastSurface := path[len(path)-1].Surface
		joined := surfaceKey(path)
		chainedStarts[joined] = true
		if c := chainBigramPhrase(h, lastSurface, maxChain, now); c != "" {
			full := joined + c[len(lastSurface):]
			if full != joined {
				chainedPhrases = append(chainedPhrases, chained{full, len([]rune(full))})
			}
		}
	}

	for _, surface := range base.Surfaces {
		if chainedStarts[surface] {
			continue
		}
		if c := chainBigramPhrase(h, surface, maxChain, now); c != "" {
			chainedPhrases = append(chainedPhrases, chained{c, len([]rune(c))})
		}
	}

	// Longest completions first, most Copilot-like.
	for i := 1; i < len(chainedPhrases); i++ {
		for j := i; j > 0 && chainedPhrases[j].length > chainedPhrases[j-1].length; j-- {
			chainedPhrases[j], chainedPhrases[j-1] = chainedPhrases[j-1], chainedPhrases[j]
		}
	}

	var surfaces []string
	seen := make(map[string]bool)
	for _, c := range chainedPhrases {
		if !seen[c.phrase] {
			seen[c.phrase] = true
			surfaces = append(surfaces, c.phrase)
		}
	}
	for _, s := range base.Surfaces {
		if !seen[s] {
			seen[s] = true
			surfaces = append(surfaces, s)
		}
	}
	if len(surfaces) > maxResults {
		surfaces = surfaces[:maxResults]
	}

	log.Debugf("predictive candidates: reading=%q surfaces=%d chained=%d", reading, len(surfaces), len(chainedPhrases))
	return Response{Surfaces: surfaces, Paths: base.Paths}
}
