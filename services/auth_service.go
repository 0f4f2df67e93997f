package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"thrift-market/config"
	"thrift-market/models"
	"thrift-market/repositories"
	"thrift-market/store"
	"thrift-market/utils"
)

// Credentials presented to an AuthStrategy. Password and OTP are mutually
// exclusive: each strategy reads only its own field.
type Credentials struct {
	Email    string
	Password string
	OTP      string
}

// AuthStrategy authenticates a set of credentials against the user store.
// The two variants found in the product — direct password and emailed OTP —
// are kept as separate strategies rather than merged: OTP-only users have no
// password at all.
type AuthStrategy interface {
	Name() string
	Authenticate(ctx context.Context, creds Credentials) (*models.User, error)
}

// PasswordStrategy verifies an argon2 hash.
type PasswordStrategy struct {
	userRepo *repositories.UserRepository
}

func NewPasswordStrategy(userRepo *repositories.UserRepository) *PasswordStrategy {
	return &PasswordStrategy{userRepo: userRepo}
}

func (s *PasswordStrategy) Name() string { return "password" }

func (s *PasswordStrategy) Authenticate(ctx context.Context, creds Credentials) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, creds.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	valid, err := utils.VerifyPassword(user.PasswordHash, creds.Password)
	if err != nil || !valid {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// OTPStrategy authenticates by consuming a previously emailed code.
type OTPStrategy struct {
	userRepo *repositories.UserRepository
	otp      *OTPService
}

func NewOTPStrategy(userRepo *repositories.UserRepository, otp *OTPService) *OTPStrategy {
	return &OTPStrategy{userRepo: userRepo, otp: otp}
}

func (s *OTPStrategy) Name() string { return "otp" }

func (s *OTPStrategy) Authenticate(ctx context.Context, creds Credentials) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, creds.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidOTP
	}
	if err != nil {
		return nil, err
	}

	if err := s.otp.Verify(ctx, creds.Email, creds.OTP); err != nil {
		return nil, err
	}
	return user, nil
}

// AuthService handles registration, strategy-based login and token issuance.
type AuthService struct {
	cfg      *config.Config
	userRepo *repositories.UserRepository
	otp      *OTPService
}

func NewAuthService(cfg *config.Config, userRepo *repositories.UserRepository, otp *OTPService) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, otp: otp}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	taken, err := s.userRepo.EmailOrUsernameExists(ctx, req.Email, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailOrUsernameTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Address:      req.Address,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// The existence check above races with concurrent registration; the
		// unique constraints are the real guard.
		if store.IsUniqueViolation(err) {
			return nil, ErrEmailOrUsernameTaken
		}
		return nil, err
	}

	return s.issueToken(user)
}

// Login authenticates with the given strategy and issues a JWT.
func (s *AuthService) Login(ctx context.Context, strategy AuthStrategy, creds Credentials) (*models.LoginResponse, error) {
	user, err := strategy.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

// ResetPassword consumes an OTP and replaces the password hash.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := s.otp.Verify(ctx, req.Email, req.OTP); err != nil {
		return err
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	updated, err := s.userRepo.UpdatePasswordByEmail(ctx, req.Email, hash)
	if err != nil {
		return err
	}
	if !updated {
		return ErrUserNotFound
	}
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int, req models.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	valid, err := utils.VerifyPassword(user.PasswordHash, req.OldPassword)
	if err != nil || !valid {
		return ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, hash)
}

func (s *AuthService) issueToken(user *models.User) (*models.LoginResponse, error) {
	token, err := utils.GenerateToken(s.cfg.JWTSecret, s.cfg.JWTExpiry, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, User: *user}, nil
}
