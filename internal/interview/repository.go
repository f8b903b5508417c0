package interview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// ErrWriteNotApplied is returned when an update matched no stored document,
// typically because the interview vanished between lookup and write.
var ErrWriteNotApplied = errors.New("interview update matched no document")

// Repository provides typed access to the candidates collection.
//
// Reads and writes are separate round trips with no transaction: a concurrent
// structural change to a candidate's interviews array between them can target
// the wrong position. Acceptable while dispatch stays single-threaded; must be
// revisited before any parallel consumption.
type Repository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// Connect dials the document store and verifies the connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to document store: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping document store: %w", err)
	}

	return client, nil
}

func NewRepository(client *mongo.Client, database, collection string, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Repository{
		collection: client.Database(database).Collection(collection),
		logger:     logger,
	}
}

// FindInterview returns the interview with the given id owned by the candidate
// with the given email, or nil when either is absent.
func (r *Repository) FindInterview(ctx context.Context, email string, id int) (*Interview, error) {
	filter := bson.M{"email": email}
	projection := bson.M{"interviews": bson.M{"$elemMatch": bson.M{"id": id}}}

	var candidate Candidate
	err := r.collection.FindOne(ctx, filter, options.FindOne().SetProjection(projection)).Decode(&candidate)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find interview %d for %s: %w", id, email, err)
	}

	if len(candidate.Interviews) == 0 {
		return nil, nil
	}

	found := candidate.Interviews[0]
	return &found, nil
}

// AppendQuestions appends the generated questions to the interview in order
// and marks the resume as processed in the same update.
func (r *Repository) AppendQuestions(ctx context.Context, email string, id int, questions []Question) error {
	idx, err := r.resolveIndex(ctx, email, id)
	if err != nil {
		return err
	}

	field := fmt.Sprintf("interviews.%d", idx)
	filter := bson.M{"email": email, field + ".id": id}
	update := bson.M{
		"$push": bson.M{field + ".questions": bson.M{"$each": questions}},
		"$set":  bson.M{field + ".isResumeProcessed": true},
	}

	return r.applyUpdate(ctx, email, id, filter, update)
}

// SetFeedback stores the generated feedback text and rating on the interview.
func (r *Repository) SetFeedback(ctx context.Context, email string, id int, feedback string, rating float64) error {
	idx, err := r.resolveIndex(ctx, email, id)
	if err != nil {
		return err
	}

	field := fmt.Sprintf("interviews.%d", idx)
	filter := bson.M{"email": email, field + ".id": id}
	update := bson.M{
		"$set": bson.M{
			field + ".feedback": feedback,
			field + ".rating":   rating,
		},
	}

	return r.applyUpdate(ctx, email, id, filter, update)
}

// resolveIndex re-reads the candidate at write time and locates the position
// of the interview in the stored array. The index from an earlier read is
// never reused.
func (r *Repository) resolveIndex(ctx context.Context, email string, id int) (int, error) {
	var candidate Candidate
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&candidate)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("%w: candidate %s not found", ErrWriteNotApplied, email)
	}
	if err != nil {
		return 0, fmt.Errorf("resolve interview %d for %s: %w", id, email, err)
	}

	idx := interviewIndex(candidate.Interviews, id)
	if idx < 0 {
		return 0, fmt.Errorf("%w: interview %d not found for %s", ErrWriteNotApplied, id, email)
	}

	return idx, nil
}

func (r *Repository) applyUpdate(ctx context.Context, email string, id int, filter, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update interview %d for %s: %w", id, email, err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: interview %d for %s", ErrWriteNotApplied, id, email)
	}

	r.logger.Debug("interview updated",
		zap.String("email", email),
		zap.Int("interview_id", id),
		zap.Int64("modified", result.ModifiedCount),
	)

	return nil
}

func interviewIndex(interviews []Interview, id int) int {
	for i, iv := range interviews {
		if iv.ID == id {
			return i
		}
	}
	return -1
}
