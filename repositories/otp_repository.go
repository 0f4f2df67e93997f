package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"thrift-market/models"
	"thrift-market/store"
)

type OTPRepository struct {
	db store.DB
}

func NewOTPRepository(db store.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// CreateOrReplace invalidates any live codes for the address and inserts the
// new one. One usable code per email at a time.
func (r *OTPRepository) CreateOrReplace(ctx context.Context, email, otp string, expiresAt time.Time) (*models.UserOTP, error) {
	if _, err := r.db.Exec(ctx,
		`UPDATE user_otps SET is_used = TRUE WHERE email = $1`, email); err != nil {
		return nil, err
	}

	record := &models.UserOTP{Email: email, OTP: otp, ExpiresAt: expiresAt}
	err := r.db.QueryRow(ctx,
		`INSERT INTO user_otps (email, otp, expires_at) VALUES ($1, $2, $3)
		 RETURNING id, is_used, created_at`,
		email, otp, expiresAt,
	).Scan(&record.ID, &record.IsUsed, &record.CreatedAt)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Consume marks a matching live code as used. Returns false when no unexpired,
// unused code matches.
func (r *OTPRepository) Consume(ctx context.Context, email, otp string) (bool, error) {
	var id int
	err := r.db.QueryRow(ctx,
		`SELECT id FROM user_otps
		 WHERE email = $1 AND otp = $2 AND expires_at > NOW() AND is_used = FALSE`,
		email, otp,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	_, err = r.db.Exec(ctx,
		`UPDATE user_otps SET is_used = TRUE WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *OTPRepository) CountRecent(ctx context.Context, email string, window time.Duration) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_otps WHERE email = $1 AND created_at > $2`,
		email, time.Now().Add(-window),
	).Scan(&count)
	return count, err
}

// DeleteExpired is the periodic sweep target.
func (r *OTPRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_otps WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
