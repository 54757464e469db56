package proposal

import (
	"strings"

	"github.com/yungbote/a2p-backend/internal/domain/profile"
)

// DefaultSimilarityThreshold is the advisory duplicate cutoff.
const DefaultSimilarityThreshold = 0.5

// SimilarMemory pairs an existing memory with its overlap score against a
// candidate proposal.
type SimilarMemory struct {
	Memory profile.Memory
	Score  float64
}

// FindSimilar flags existing memories that look like duplicates of a
// candidate content. The candidate is tokenized into words longer than
// three characters; each memory scores the fraction of those tokens that
// appear, case-insensitively, in its content. Memories scoring above the
// threshold are returned. Advisory only: it never blocks approval.
func FindSimilar(candidateContent string, memories []profile.Memory, threshold float64) []SimilarMemory {
	tokens := tokenize(candidateContent)
	if len(tokens) == 0 {
		return nil
	}
	var out []SimilarMemory
	for _, m := range memories {
		content := strings.ToLower(m.Content)
		hits := 0
		for _, tok := range tokens {
			if strings.Contains(content, tok) {
				hits++
			}
		}
		score := float64(hits) / float64(len(tokens))
		if score > threshold {
			out = append(out, SimilarMemory{Memory: m, Score: score})
		}
	}
	return out
}

func tokenize(content string) []string {
	var tokens []string
	for _, w := range strings.Fields(strings.ToLower(content)) {
		if len(w) > 3 {
			tokens = append(tokens, w)
		}
	}
	return tokens
}
