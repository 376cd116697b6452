package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nyeemonkham-stack/rta-library-webapp/internal/models"
)

// ErrNotFound is returned when a lookup matches no record, or when a contact
// lookup matches more than one. The two cases are deliberately
// indistinguishable to callers.
var ErrNotFound = errors.New("subscription not found")

// SubscriptionRepository is the Postgres record store for subscription rows.
type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

const subscriptionColumns = `id, full_name, email, phone, telegram_handle, country,
	plan, duration_months, format, is_student, proof_url, status,
	start_date, end_date, created_at`

// Insert persists a new subscription row. The proof blob must already be
// uploaded; rows never reference proofs that do not exist.
func (r *SubscriptionRepository) Insert(ctx context.Context, p *models.SubscriptionProfile) error {
	query := `
		INSERT INTO subscriptions (
			id, full_name, email, phone, telegram_handle, country,
			plan, duration_months, format, is_student, proof_url, status,
			start_date, end_date
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12,
			$13, $14
		)
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.FullName, p.Email, p.Phone, p.TelegramHandle, p.Country,
		p.Plan, p.DurationMonths, p.Format, p.IsStudent, p.ProofURL, p.ApprovalStatus,
		p.StartDate, p.EndDate,
	)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// FindByContact looks up the one record matching both contact fields exactly.
// Zero matches and multiple matches both return ErrNotFound.
func (r *SubscriptionRepository) FindByContact(ctx context.Context, email, phone string) (*models.SubscriptionProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM subscriptions
		WHERE email = $1 AND phone = $2
		LIMIT 2
	`, subscriptionColumns)

	rows, err := r.pool.Query(ctx, query, email, phone)
	if err != nil {
		return nil, fmt.Errorf("find by contact: %w", err)
	}
	defer rows.Close()

	var matches []*models.SubscriptionProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find by contact: %w", err)
	}

	if len(matches) != 1 {
		return nil, ErrNotFound
	}
	return matches[0], nil
}

// LatestByEmail returns the subscriber's most recent record. Used by the
// status refresh path: the newest row's status wins.
func (r *SubscriptionRepository) LatestByEmail(ctx context.Context, email string) (*models.SubscriptionProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM subscriptions
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, subscriptionColumns)
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

// FindApprovedByHandle fuzzy-matches an approved record by Telegram handle.
// The stored handle carries the @ prefix while join requests do not, so the
// match is a case-insensitive substring search.
func (r *SubscriptionRepository) FindApprovedByHandle(ctx context.Context, username string) (*models.SubscriptionProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM subscriptions
		WHERE telegram_handle ILIKE '%%' || $1 || '%%' AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, subscriptionColumns)
	return r.scanOne(r.pool.QueryRow(ctx, query, username, models.StatusApproved))
}

// UpdateStatus sets the approval status of a record.
func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE subscriptions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepository) scanOne(row pgx.Row) (*models.SubscriptionProfile, error) {
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// scanProfile is the single canonical row mapping, shared by every read path
// so signup and login reconstruct identical profiles.
func scanProfile(row pgx.Row) (*models.SubscriptionProfile, error) {
	var p models.SubscriptionProfile
	err := row.Scan(
		&p.ID, &p.FullName, &p.Email, &p.Phone, &p.TelegramHandle, &p.Country,
		&p.Plan, &p.DurationMonths, &p.Format, &p.IsStudent, &p.ProofURL, &p.ApprovalStatus,
		&p.StartDate, &p.EndDate, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan subscription: %w", err)
	}
	return &p, nil
}
