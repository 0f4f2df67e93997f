package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thrift-market/repositories"
)

func TestGenerateOTPFormat(t *testing.T) {
	sixDigits := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 20; i++ {
		otp, err := generateOTP()
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, otp)
	}
}

func TestVerifyConsumesCode(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := seedUser(t, pool)

	otpRepo := repositories.NewOTPRepository(pool)
	svc := NewOTPService(otpRepo, repositories.NewUserRepository(pool), nil, 10*time.Minute)

	_, err := otpRepo.CreateOrReplace(ctx, user.Email, "123456", time.Now().Add(10*time.Minute))
	require.NoError(t, err)

	require.NoError(t, svc.Verify(ctx, user.Email, "123456"))

	// Single use: the same code fails the second time.
	err = svc.Verify(ctx, user.Email, "123456")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyExpiredCode(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := seedUser(t, pool)

	otpRepo := repositories.NewOTPRepository(pool)
	svc := NewOTPService(otpRepo, repositories.NewUserRepository(pool), nil, 10*time.Minute)

	_, err := otpRepo.CreateOrReplace(ctx, user.Email, "654321", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	err = svc.Verify(ctx, user.Email, "654321")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestSendRateLimited(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := seedUser(t, pool)

	svc := NewOTPService(repositories.NewOTPRepository(pool),
		repositories.NewUserRepository(pool), nil, 10*time.Minute)

	for i := 0; i < otpMaxPerWindow; i++ {
		require.NoError(t, svc.Send(ctx, user.Email))
	}
	err := svc.Send(ctx, user.Email)
	assert.ErrorIs(t, err, ErrOTPRateLimited)
}

func TestSendUnknownEmail(t *testing.T) {
	pool := testPool(t)

	svc := NewOTPService(repositories.NewOTPRepository(pool),
		repositories.NewUserRepository(pool), nil, 10*time.Minute)

	err := svc.Send(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
