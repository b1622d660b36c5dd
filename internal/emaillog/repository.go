// Package emaillog persists the delivery audit trail for notification
// emails. One row per attempted send; the send path never reads it back.
package emaillog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fahrschule-lenz/backend/internal/models"
)

// Repository handles email_logs persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email log repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record inserts one audit row.
func (r *Repository) Record(ctx context.Context, entry *models.EmailLog) error {
	const q = `INSERT INTO email_logs (id, recipient, recipient_email, subject, status, error_message)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, entry.Recipient, entry.RecipientEmail, entry.Subject, entry.Status, entry.ErrorMessage).
		Scan(&entry.ID, &entry.CreatedAt)
}

// List returns the newest audit rows, up to limit.
func (r *Repository) List(ctx context.Context, limit int) ([]models.EmailLog, error) {
	const q = `SELECT id, recipient, recipient_email, subject, status, error_message, created_at
		FROM email_logs
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EmailLog
	for rows.Next() {
		var el models.EmailLog
		var errMsg *string
		if err := rows.Scan(&el.ID, &el.Recipient, &el.RecipientEmail, &el.Subject, &el.Status, &errMsg, &el.CreatedAt); err != nil {
			return nil, err
		}
		if errMsg != nil {
			el.ErrorMessage = *errMsg
		}
		list = append(list, el)
	}
	return list, rows.Err()
}
