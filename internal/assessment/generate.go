package assessment

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spirax/interview-agent/internal/util"
)

//go:embed questions_prompt.md
var questionsPromptTemplate string

//go:embed feedback_prompt.md
var feedbackPromptTemplate string

const defaultMaxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Generator turns resumes into question/answer pairs and scored interviews
// into narrative feedback, using an external generative model.
type Generator struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewGenerator(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Generator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// GenerateQuestions asks the model for exactly five questions with expected
// answers for the given resume and role, and extracts the numbered pairs.
func (g *Generator) GenerateQuestions(ctx context.Context, resumeText, role string) (*Pairs, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("%w: resume text is empty", ErrGeneration)
	}

	prompt := strings.ReplaceAll(questionsPromptTemplate, "{{RESUME_TEXT}}", resumeText)
	prompt = strings.ReplaceAll(prompt, "{{ROLE}}", role)

	raw, err := g.generate(ctx, "questions", prompt)
	if err != nil {
		return nil, err
	}

	return ExtractPairs(raw)
}

// GenerateFeedback asks the model for first-person interviewer feedback over
// the ordered question, given-answer and expected-answer sequences and the
// computed similarity score.
func (g *Generator) GenerateFeedback(ctx context.Context, questions, given, expected []string, role string, score float64) (string, error) {
	prompt := strings.ReplaceAll(feedbackPromptTemplate, "{{ROLE}}", role)
	prompt = strings.ReplaceAll(prompt, "{{QUESTIONS}}", strings.Join(questions, "\n"))
	prompt = strings.ReplaceAll(prompt, "{{GIVEN_ANSWERS}}", strings.Join(given, "\n"))
	prompt = strings.ReplaceAll(prompt, "{{EXPECTED_ANSWERS}}", strings.Join(expected, "\n"))
	prompt = strings.ReplaceAll(prompt, "{{SCORE}}", fmt.Sprintf("%.2f", score))

	return g.generate(ctx, "feedback", prompt)
}

func (g *Generator) generate(ctx context.Context, kind, prompt string) (string, error) {
	g.logger.Debug("generate content request",
		zap.String("kind", kind),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, g.maxLogLen)),
	)

	raw, err := g.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrGeneration, err)
	}

	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: model returned empty %s response", ErrGeneration, kind)
	}

	g.logger.Debug("generate content response",
		zap.String("kind", kind),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, g.maxLogLen)),
	)

	return raw, nil
}
