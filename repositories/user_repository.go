package repositories

import (
	"context"
	"time"

	"thrift-market/models"
	"thrift-market/store"
)

type UserRepository struct {
	db store.DB
}

func NewUserRepository(db store.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, username, password_hash, full_name, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.FullName,
		user.Phone,
		user.Address,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, username, password_hash, full_name, phone, address, profile_image, created_at, updated_at
		FROM users WHERE email = $1
	`
	user := &models.User{}
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.FullName,
		&user.Phone,
		&user.Address,
		&user.ProfileImage,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, email, username, password_hash, full_name, phone, address, profile_image, created_at, updated_at
		FROM users WHERE id = $1
	`
	user := &models.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.FullName,
		&user.Phone,
		&user.Address,
		&user.ProfileImage,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) EmailOrUsernameExists(ctx context.Context, email, username string) (bool, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE email = $1 OR username = $2`,
		email, username,
	).Scan(&count)
	return count > 0, err
}

func (r *UserRepository) UsernameTakenByOther(ctx context.Context, username string, userID int) (bool, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE username = $1 AND id != $2`,
		username, userID,
	).Scan(&count)
	return count > 0, err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $1, full_name = $2, phone = $3, address = $4, updated_at = $5
		WHERE id = $6
		RETURNING updated_at
	`
	return r.db.QueryRow(ctx, query,
		user.Username,
		user.FullName,
		user.Phone,
		user.Address,
		time.Now(),
		user.ID,
	).Scan(&user.UpdatedAt)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, passwordHash string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		passwordHash, time.Now(), userID,
	)
	return err
}

func (r *UserRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE email = $3`,
		passwordHash, time.Now(), email,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepository) UpdateProfileImage(ctx context.Context, userID int, imagePath string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET profile_image = $1, updated_at = $2 WHERE id = $3`,
		imagePath, time.Now(), userID,
	)
	return err
}
