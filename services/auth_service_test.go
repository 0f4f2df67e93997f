package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thrift-market/config"
	"thrift-market/models"
	"thrift-market/repositories"
)

func authFixture(t *testing.T) (*AuthService, *PasswordStrategy, *OTPStrategy, *repositories.OTPRepository) {
	pool := testPool(t)
	userRepo := repositories.NewUserRepository(pool)
	otpRepo := repositories.NewOTPRepository(pool)
	otpSvc := NewOTPService(otpRepo, userRepo, nil, 10*time.Minute)

	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
	return NewAuthService(cfg, userRepo, otpSvc),
		NewPasswordStrategy(userRepo),
		NewOTPStrategy(userRepo, otpSvc),
		otpRepo
}

func registerRequest() models.RegisterRequest {
	suffix := uuid.NewString()[:8]
	return models.RegisterRequest{
		Email:    "reg-" + suffix + "@example.com",
		Username: "reg_" + suffix,
		Password: "hunter22",
		FullName: "Reg Tester",
	}
}

func TestRegisterAndPasswordLogin(t *testing.T) {
	auth, password, _, _ := authFixture(t)
	ctx := context.Background()
	req := registerRequest()

	resp, err := auth.Register(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, req.Email, resp.User.Email)

	login, err := auth.Login(ctx, password, Credentials{Email: req.Email, Password: req.Password})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)

	_, err = auth.Login(ctx, password, Credentials{Email: req.Email, Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicate(t *testing.T) {
	auth, _, _, _ := authFixture(t)
	ctx := context.Background()
	req := registerRequest()

	_, err := auth.Register(ctx, req)
	require.NoError(t, err)

	_, err = auth.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailOrUsernameTaken)
}

func TestOTPLogin(t *testing.T) {
	auth, _, otpLogin, otpRepo := authFixture(t)
	ctx := context.Background()
	req := registerRequest()

	_, err := auth.Register(ctx, req)
	require.NoError(t, err)

	_, err = otpRepo.CreateOrReplace(ctx, req.Email, "123456", time.Now().Add(10*time.Minute))
	require.NoError(t, err)

	login, err := auth.Login(ctx, otpLogin, Credentials{Email: req.Email, OTP: "123456"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)

	// The code was consumed by the successful login.
	_, err = auth.Login(ctx, otpLogin, Credentials{Email: req.Email, OTP: "123456"})
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestResetPassword(t *testing.T) {
	auth, password, _, otpRepo := authFixture(t)
	ctx := context.Background()
	req := registerRequest()

	_, err := auth.Register(ctx, req)
	require.NoError(t, err)

	_, err = otpRepo.CreateOrReplace(ctx, req.Email, "999000", time.Now().Add(10*time.Minute))
	require.NoError(t, err)

	err = auth.ResetPassword(ctx, models.ResetPasswordRequest{
		Email:       req.Email,
		OTP:         "999000",
		NewPassword: "brand-new-pass",
	})
	require.NoError(t, err)

	_, err = auth.Login(ctx, password, Credentials{Email: req.Email, Password: req.Password})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, password, Credentials{Email: req.Email, Password: "brand-new-pass"})
	assert.NoError(t, err)
}
