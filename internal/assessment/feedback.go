package assessment

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// FeedbackScoring is the feedback-request workflow: answered interview in,
// persisted rating and narrative feedback out.
type FeedbackScoring struct {
	store     InterviewStore
	scorer    *Scorer
	generator *Generator
	logger    *zap.Logger
}

func NewFeedbackScoring(store InterviewStore, scorer *Scorer, generator *Generator, logger *zap.Logger) *FeedbackScoring {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FeedbackScoring{
		store:     store,
		scorer:    scorer,
		generator: generator,
		logger:    logger,
	}
}

// Handle processes one feedback-request event to completion. Interviews with
// no questions, or with any unanswered question, are dropped: a rating over
// empty answers would be noise, and the upstream flow only requests feedback
// once the interview has ended.
func (w *FeedbackScoring) Handle(ctx context.Context, email, role string, id int) error {
	logger := w.logger.With(
		zap.String("email", email),
		zap.Int("interview_id", id),
		zap.String("role", role),
	)

	found, err := w.store.FindInterview(ctx, email, id)
	if err != nil {
		return stageErr("find interview", email, id, err)
	}

	if found == nil {
		return stageErr("find interview", email, id, ErrResumeNotFound)
	}

	if len(found.Questions) == 0 {
		return stageErr("collect answers", email, id,
			fmt.Errorf("%w: no questions generated yet", ErrAnswersMissing))
	}

	questions := make([]string, 0, len(found.Questions))
	given := make([]string, 0, len(found.Questions))
	expected := make([]string, 0, len(found.Questions))

	for i, q := range found.Questions {
		if q.UserAnswer == "" {
			return stageErr("collect answers", email, id,
				fmt.Errorf("%w: question %d is unanswered", ErrAnswersMissing, i+1))
		}
		questions = append(questions, q.Question)
		given = append(given, q.UserAnswer)
		expected = append(expected, q.ExpectedAnswer)
	}

	score, err := w.scorer.Score(ctx, given, expected)
	if err != nil {
		return stageErr("score answers", email, id, err)
	}

	logger.Debug("similarity computed", zap.Float64("score", score))

	feedback, err := w.generator.GenerateFeedback(ctx, questions, given, expected, role, score)
	if err != nil {
		return stageErr("generate feedback", email, id, err)
	}

	if err := w.store.SetFeedback(ctx, email, id, feedback, score); err != nil {
		return stageErr("persist feedback", email, id, fmt.Errorf("%w: %s", ErrPersistence, err))
	}

	logger.Info("feedback recorded", zap.Float64("rating", score))
	return nil
}
