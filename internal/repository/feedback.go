package repository

import (
	"context"
	"database/sql"
	"fmt"

	"restaurant-ordering/internal/domain"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// ClampPage keeps paging parameters inside sane bounds.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

type FeedbackRepositoryInterface interface {
	AddFeedback(ctx context.Context, f domain.Feedback) (int64, error)
	ListFeedback(ctx context.Context, limit, offset int) ([]domain.Feedback, error)
}

type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) AddFeedback(ctx context.Context, f domain.Feedback) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO feedback (username, feedback, rating, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		f.Username, f.Text, f.Rating, f.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to add feedback: %w", err)
	}
	return id, nil
}

// ListFeedback returns one page of entries, newest first. The bounds are
// inlined as integers because ramsql only accepts literals there.
func (r *FeedbackRepository) ListFeedback(ctx context.Context, limit, offset int) ([]domain.Feedback, error) {
	limit, offset = ClampPage(limit, offset)
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, username, feedback, rating, created_at FROM feedback ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d`,
		limit, offset))
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	out := []domain.Feedback{}
	for rows.Next() {
		var f domain.Feedback
		if err := rows.Scan(&f.ID, &f.Username, &f.Text, &f.Rating, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
