package assessment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestGenerateQuestionsInterpolatesPrompt(t *testing.T) {
	stub := &stubGenerator{response: wellFormedOutput}
	generator := NewGenerator(stub, zap.NewNop(), 0)

	pairs, err := generator.GenerateQuestions(context.Background(), "Built a payment gateway in Go.", "Backend")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pairs.Questions) != 5 || len(pairs.Answers) != 5 {
		t.Fatalf("expected 5 pairs, got %d/%d", len(pairs.Questions), len(pairs.Answers))
	}

	if !strings.Contains(stub.lastPrompt, "Built a payment gateway in Go.") {
		t.Fatalf("resume text missing from prompt: %s", stub.lastPrompt)
	}

	if !strings.Contains(stub.lastPrompt, "for the role of Backend") {
		t.Fatalf("role missing from prompt: %s", stub.lastPrompt)
	}

	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("unreplaced placeholder left in prompt: %s", stub.lastPrompt)
	}
}

func TestGenerateQuestionsEmptyResume(t *testing.T) {
	generator := NewGenerator(&stubGenerator{}, zap.NewNop(), 0)

	_, err := generator.GenerateQuestions(context.Background(), "  ", "Backend")
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestGenerateQuestionsModelFailure(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	generator := NewGenerator(stub, zap.NewNop(), 0)

	_, err := generator.GenerateQuestions(context.Background(), "resume", "Backend")
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestGenerateQuestionsUnparseableOutput(t *testing.T) {
	stub := &stubGenerator{response: "Here are some thoughts without any structure."}
	generator := NewGenerator(stub, zap.NewNop(), 0)

	_, err := generator.GenerateQuestions(context.Background(), "resume", "Backend")
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestGenerateFeedbackInterpolatesPrompt(t *testing.T) {
	stub := &stubGenerator{response: "I liked the depth of your answers on concurrency."}
	generator := NewGenerator(stub, zap.NewNop(), 0)

	feedback, err := generator.GenerateFeedback(
		context.Background(),
		[]string{"What is a goroutine?"},
		[]string{"A lightweight thread."},
		[]string{"A lightweight thread managed by the runtime."},
		"Backend",
		3.5,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if feedback == "" {
		t.Fatal("expected non-empty feedback")
	}

	if !strings.Contains(stub.lastPrompt, "What is a goroutine?") {
		t.Fatalf("question missing from prompt: %s", stub.lastPrompt)
	}

	if !strings.Contains(stub.lastPrompt, "3.50") {
		t.Fatalf("score missing from prompt: %s", stub.lastPrompt)
	}

	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("unreplaced placeholder left in prompt: %s", stub.lastPrompt)
	}
}

func TestGenerateFeedbackEmptyModelResponse(t *testing.T) {
	stub := &stubGenerator{response: "   "}
	generator := NewGenerator(stub, zap.NewNop(), 0)

	_, err := generator.GenerateFeedback(context.Background(), []string{"q"}, []string{"a"}, []string{"e"}, "Backend", 4)
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration for empty response, got %v", err)
	}
}
