package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5"

	"thrift-market/repositories"
)

const (
	otpRateWindow   = time.Minute
	otpMaxPerWindow = 3
)

// OTPService issues and verifies single-use email codes shared by the
// passwordless login flow and password reset.
type OTPService struct {
	otpRepo  *repositories.OTPRepository
	userRepo *repositories.UserRepository
	email    *EmailService
	expiry   time.Duration
}

func NewOTPService(otpRepo *repositories.OTPRepository, userRepo *repositories.UserRepository, email *EmailService, expiry time.Duration) *OTPService {
	return &OTPService{otpRepo: otpRepo, userRepo: userRepo, email: email, expiry: expiry}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Send issues a code to a registered address. Limited to 3 requests per
// minute per email; issuing a new code invalidates earlier ones.
func (s *OTPService) Send(ctx context.Context, email string) error {
	if _, err := s.userRepo.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	recent, err := s.otpRepo.CountRecent(ctx, email, otpRateWindow)
	if err != nil {
		return err
	}
	if recent >= otpMaxPerWindow {
		return ErrOTPRateLimited
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}

	if _, err := s.otpRepo.CreateOrReplace(ctx, email, otp, time.Now().Add(s.expiry)); err != nil {
		return err
	}

	if s.email == nil {
		// Mail disabled; surface the code in logs for development setups.
		slog.Info("OTP issued (mail disabled)", "email", email, "otp", otp)
		return nil
	}
	return s.email.SendOTP(email, otp)
}

// Verify consumes a code. A code is good exactly once and only before expiry.
func (s *OTPService) Verify(ctx context.Context, email, otp string) error {
	ok, err := s.otpRepo.Consume(ctx, email, otp)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOTP
	}
	return nil
}

// StartSweeper launches the periodic expiry sweep. Returns immediately; the
// sweep stops when ctx is cancelled.
func (s *OTPService) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.otpRepo.DeleteExpired(ctx)
				if err != nil {
					slog.Warn("OTP sweep failed", "error", err)
					continue
				}
				if removed > 0 {
					slog.Debug("OTP sweep", "removed", removed)
				}
			}
		}
	}()
}
