package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"labeling-service/internal/export"
	"labeling-service/internal/models"
	"labeling-service/internal/store"
)

var (
	ErrUserRequired  = errors.New("user is required")
	ErrInvalidUser   = errors.New("invalid user name")
	ErrTaskRequired  = errors.New("task_id is required")
	ErrInvalidRating = errors.New("invalid rating value")
	ErrNoQuestions   = errors.New("no questions in database")
)

// Service validates requests and orchestrates the store.
type Service struct {
	store  store.Store
	logger *zap.Logger
}

// New creates the annotation service.
func New(st store.Store, logger *zap.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// Backend reports which store backend is active.
func (s *Service) Backend() string {
	return s.store.Backend()
}

// QuestionsFor returns the question list with the given user's ratings
// filled in. An empty user yields all-unrated rows and an empty annotator
// column.
func (s *Service) QuestionsFor(ctx context.Context, user string) ([]models.QuestionRow, string, error) {
	questions, err := s.store.Questions(ctx)
	if err != nil {
		return nil, "", err
	}

	annotatorID := models.AnnotatorID(user)
	ratings := map[string]models.Rating{}
	if annotatorID != "" {
		ratings, err = s.store.Annotations(ctx, annotatorID)
		if err != nil {
			return nil, "", err
		}
	}

	rows := make([]models.QuestionRow, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		rows = append(rows, models.QuestionRow{
			Index:        i,
			TaskID:       q.TaskID,
			UserRoleInfo: q.UserRoleInfo(),
			Domain:       q.Domain,
			DRQuestion:   q.DRQuestion,
			Annotation:   int(ratings[q.TaskID]),
		})
	}
	return rows, annotatorID, nil
}

// SetRating validates and upserts one rating. Value 0 clears.
func (s *Service) SetRating(ctx context.Context, user, taskID string, value int) error {
	if user == "" {
		return ErrUserRequired
	}
	if taskID == "" {
		return ErrTaskRequired
	}
	rating := models.Rating(value)
	if !rating.Valid() {
		return ErrInvalidRating
	}

	annotatorID := models.AnnotatorID(user)
	if annotatorID == "" {
		return ErrInvalidUser
	}

	if err := s.store.SetRating(ctx, annotatorID, taskID, rating); err != nil {
		return err
	}

	s.logger.Info("Rating saved",
		zap.String("annotator", annotatorID),
		zap.String("task_id", taskID),
		zap.Int("value", value))
	return nil
}

// Export flattens every annotator's ratings into one table.
func (s *Service) Export(ctx context.Context) (*export.Table, error) {
	questions, err := s.store.Questions(ctx)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	annotations, err := s.store.AllAnnotations(ctx)
	if err != nil {
		return nil, err
	}
	return export.Flatten(questions, annotations), nil
}
