package assessment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
)

// stubEmbedder maps sentences to fixed vectors and records how often it is
// called. Unknown sentences fall back to a shared default vector.
type stubEmbedder struct {
	vectors map[string][]float32
	calls   int
	err     error
}

func (s *stubEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if vec, ok := s.vectors[text]; ok {
		return vec, nil
	}
	return []float32{1, 0, 0}, nil
}

func TestScoreIdenticalAnswersHitsMaximum(t *testing.T) {
	embedder := &stubEmbedder{}
	scorer := NewScorer(embedder, zap.NewNop())

	answers := []string{"a goroutine is lightweight", "channels communicate", "defer runs late"}

	score, err := scorer.Score(context.Background(), answers, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if score != MaxRating {
		t.Fatalf("expected maximum score %v, got %v", MaxRating, score)
	}
}

func TestScoreLengthMismatch(t *testing.T) {
	embedder := &stubEmbedder{}
	scorer := NewScorer(embedder, zap.NewNop())

	_, err := scorer.Score(context.Background(), []string{"one"}, []string{"one", "two"})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}

	if embedder.calls != 0 {
		t.Fatalf("expected no embedding calls on mismatch, got %d", embedder.calls)
	}
}

func TestScoreEmptySequences(t *testing.T) {
	scorer := NewScorer(&stubEmbedder{}, zap.NewNop())

	_, err := scorer.Score(context.Background(), nil, nil)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch for empty input, got %v", err)
	}
}

func TestScoreClampsNegativeSimilarity(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"given":    {1, 0, 0},
		"expected": {-1, 0, 0},
	}}
	scorer := NewScorer(embedder, zap.NewNop())

	score, err := scorer.Score(context.Background(), []string{"given"}, []string{"expected"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if score != 0 {
		t.Fatalf("expected opposite vectors to clamp to 0, got %v", score)
	}
}

func TestScoreStaysWithinBounds(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"g1": {1, 0, 0}, "e1": {0.5, 0.5, 0},
		"g2": {0, 1, 0}, "e2": {0, -1, 0},
		"g3": {0, 0, 1}, "e3": {0, 0, 1},
	}}
	scorer := NewScorer(embedder, zap.NewNop())

	score, err := scorer.Score(context.Background(),
		[]string{"g1", "g2", "g3"},
		[]string{"e1", "e2", "e3"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if score < 0 || score > MaxRating {
		t.Fatalf("score %v out of [0, %v]", score, MaxRating)
	}
}

func TestScoreRoundsToTwoDecimals(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"given":    {1, 0},
		"expected": {1, 1},
	}}
	scorer := NewScorer(embedder, zap.NewNop())

	// cosine = 1/sqrt(2), score = 3.5355... -> 3.54
	score, err := scorer.Score(context.Background(), []string{"given"}, []string{"expected"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if score != 3.54 {
		t.Fatalf("expected 3.54, got %v", score)
	}
}

func TestScoreEmbedderFailure(t *testing.T) {
	embedder := &stubEmbedder{err: fmt.Errorf("quota exhausted")}
	scorer := NewScorer(embedder, zap.NewNop())

	_, err := scorer.Score(context.Background(), []string{"a"}, []string{"b"})
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestCosineDimensionMismatch(t *testing.T) {
	if _, err := cosine([]float32{1, 0}, []float32{1}); err == nil {
		t.Fatal("expected error for mismatched dimensions")
	}
}

func TestCosineZeroVector(t *testing.T) {
	sim, err := cosine([]float32{0, 0}, []float32{1, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sim != 0 {
		t.Fatalf("expected 0 similarity for zero vector, got %v", sim)
	}
}
