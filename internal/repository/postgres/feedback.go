package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ellas-cupcakery/storefront/internal/domain"
)

// FeedbackRepository implements domain.FeedbackRepository
type FeedbackRepository struct {
	db DBTX
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db DBTX) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// CreateFeedback inserts a new feedback entry
func (r *FeedbackRepository) CreateFeedback(ctx context.Context, entry *domain.FeedbackEntry) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO feedback (id, customer_id, text, created_at)
		 VALUES ($1, $2, $3, $4)`,
		entry.ID, entry.CustomerID, entry.Text, entry.Timestamp,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrRecordExists
		}
		return fmt.Errorf("repository: failed to create feedback %q: %w", entry.ID, err)
	}
	return nil
}

// GetAllFeedback fetches the whole feedback collection
func (r *FeedbackRepository) GetAllFeedback(ctx context.Context) (map[string]domain.FeedbackEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, customer_id, text, created_at FROM feedback`,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to get feedback: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]domain.FeedbackEntry)
	for rows.Next() {
		entry := domain.FeedbackEntry{}
		if err := rows.Scan(&entry.ID, &entry.CustomerID, &entry.Text, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("repository: failed to scan feedback: %w", err)
		}
		entries[entry.ID] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating feedback: %w", err)
	}
	return entries, nil
}
