package assessment

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// MaxRating is the upper bound of the similarity scale.
const MaxRating = 5.0

type sentenceEmbedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Scorer computes a 0-5 semantic similarity score between the candidate's
// answers and the expected answers.
type Scorer struct {
	embedder sentenceEmbedder
	logger   *zap.Logger
}

func NewScorer(embedder sentenceEmbedder, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scorer{embedder: embedder, logger: logger}
}

// Score embeds each answer and averages the cosine similarity of same-index
// pairs, rescaled to 0-5. Only the i-th given answer is compared against the
// i-th expected answer; there is no cross matching. The result is a proxy for
// semantic closeness, not correctness.
func (s *Scorer) Score(ctx context.Context, given, expected []string) (float64, error) {
	if len(given) != len(expected) {
		return 0, fmt.Errorf("%w: given=%d, expected=%d", ErrLengthMismatch, len(given), len(expected))
	}
	if len(given) == 0 {
		return 0, fmt.Errorf("%w: answer sequences are empty", ErrLengthMismatch)
	}

	total := 0.0
	for i := range given {
		givenVec, err := s.embedder.EmbedText(ctx, given[i])
		if err != nil {
			return 0, fmt.Errorf("%w: embed given answer %d: %s", ErrGeneration, i+1, err)
		}

		expectedVec, err := s.embedder.EmbedText(ctx, expected[i])
		if err != nil {
			return 0, fmt.Errorf("%w: embed expected answer %d: %s", ErrGeneration, i+1, err)
		}

		similarity, err := cosine(givenVec, expectedVec)
		if err != nil {
			return 0, fmt.Errorf("answer pair %d: %w", i+1, err)
		}

		s.logger.Debug("answer pair scored",
			zap.Int("pair", i+1),
			zap.Float64("cosine", similarity),
		)

		total += similarity
	}

	average := total / float64(len(given))
	score := average * MaxRating

	// Raw cosine lies in [-1, 1]; clamp so the rating honours its 0-5 contract.
	score = math.Max(0, math.Min(MaxRating, score))

	return math.Round(score*100) / 100, nil
}

func cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimensions differ: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
