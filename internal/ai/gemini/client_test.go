package gemini

import (
	"errors"
	"net/http"
	"testing"

	"google.golang.org/genai"
)

func TestCollectTextJoinsCandidateParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{Parts: []*genai.Part{
					{Text: " Questions: "},
					{Text: ""},
					{Text: "1. What is a goroutine?"},
				}},
			},
			nil,
		},
	}

	got := collectText(resp)
	want := "Questions:\n1. What is a goroutine?"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestCollectTextEmptyResponse(t *testing.T) {
	if got := collectText(nil); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}

	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}}
	if got := collectText(resp); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestValidateEmbedding(t *testing.T) {
	resp := &genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: []float32{0.1, 0.2, 0.3}}},
	}

	values, err := validateEmbedding(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(values))
	}
}

func TestValidateEmbeddingRejectsEmpty(t *testing.T) {
	if _, err := validateEmbedding(nil); err == nil {
		t.Fatal("expected error for nil response")
	}

	resp := &genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: nil}},
	}
	if _, err := validateEmbedding(resp); err == nil {
		t.Fatal("expected error for empty vector")
	}
}

func TestIsTransientError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{
			name:      "rate limit",
			err:       genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"},
			transient: true,
		},
		{
			name:      "server error",
			err:       genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"},
			transient: true,
		},
		{
			name:      "bad request",
			err:       genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"},
			transient: false,
		},
		{
			name:      "plain error",
			err:       errors.New("boom"),
			transient: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isTransientError(tt.err); got != tt.transient {
				t.Fatalf("expected transient=%v, got %v", tt.transient, got)
			}
		})
	}
}
