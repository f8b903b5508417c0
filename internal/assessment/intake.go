package assessment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spirax/interview-agent/internal/interview"
)

// InterviewStore is the slice of the repository the workflows consume.
type InterviewStore interface {
	FindInterview(ctx context.Context, email string, id int) (*interview.Interview, error)
	AppendQuestions(ctx context.Context, email string, id int, questions []interview.Question) error
	SetFeedback(ctx context.Context, email string, id int, feedback string, rating float64) error
}

type resumeTextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Intake is the resume-upload workflow: stored resume in, persisted question
// set out. Nothing is written until the questions exist; the single append
// also flips isResumeProcessed so generation happens at most once.
type Intake struct {
	store     InterviewStore
	extractor resumeTextExtractor
	generator *Generator
	logger    *zap.Logger
}

func NewIntake(store InterviewStore, extractor resumeTextExtractor, generator *Generator, logger *zap.Logger) *Intake {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Intake{
		store:     store,
		extractor: extractor,
		generator: generator,
		logger:    logger,
	}
}

// Handle processes one resume-upload event to completion.
func (w *Intake) Handle(ctx context.Context, email, role string, id int) error {
	logger := w.logger.With(
		zap.String("email", email),
		zap.Int("interview_id", id),
		zap.String("role", role),
	)

	found, err := w.store.FindInterview(ctx, email, id)
	if err != nil {
		return stageErr("find interview", email, id, err)
	}

	if found == nil || len(found.ResumeData) == 0 {
		return stageErr("find interview", email, id, ErrResumeNotFound)
	}

	if found.IsResumeProcessed {
		logger.Info("resume already processed, dropping event")
		return nil
	}

	resumeText, err := w.extractor.ExtractText(ctx, found.ResumeData)
	if err != nil {
		return stageErr("extract resume text", email, id, err)
	}

	logger.Debug("resume text extracted", zap.Int("length", len(resumeText)))

	pairs, err := w.generator.GenerateQuestions(ctx, resumeText, role)
	if err != nil {
		return stageErr("generate questions", email, id, err)
	}

	if len(pairs.Questions) != len(pairs.Answers) {
		return stageErr("generate questions", email, id,
			fmt.Errorf("%w: questions=%d, answers=%d", ErrFormat, len(pairs.Questions), len(pairs.Answers)))
	}

	questions := make([]interview.Question, 0, len(pairs.Questions))
	for i, q := range pairs.Questions {
		questions = append(questions, interview.Question{
			Question:       q,
			UserAnswer:     "",
			ExpectedAnswer: pairs.Answers[i],
		})
	}

	if err := w.store.AppendQuestions(ctx, email, id, questions); err != nil {
		return stageErr("persist questions", email, id, fmt.Errorf("%w: %s", ErrPersistence, err))
	}

	logger.Info("resume processed", zap.Int("questions", len(questions)))
	return nil
}
