package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/weynak/weynak/internal/common"
	"github.com/weynak/weynak/internal/dbx"
	"github.com/weynak/weynak/internal/server/models"
	"github.com/weynak/weynak/internal/timex"
)

const userColumns = `id, name, email, password_hash, otp, otp_expires_at, created_at, updated_at`

type PostgresRepository struct {
	db  *sql.DB
	now timex.Clock
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, now: timex.SystemClock}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user         models.User
		otp          sql.NullString
		otpExpiresAt sql.NullTime
	)

	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&otp, &otpExpiresAt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if otp.Valid && otpExpiresAt.Valid {
		code, exp := otp.String, otpExpiresAt.Time
		user.Otp, user.OtpExpiresAt = &code, &exp
	}

	return &user, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE email = $1
		 `

	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) FindByEmailAndOtp(ctx context.Context, email, otp string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE email = $1 AND otp = $2
		 `

	return scanUser(r.db.QueryRowContext(ctx, query, email, otp))
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6)
		 `

	now := r.now().UTC()
	created := *user
	created.ID = uuid.NewString()
	created.Otp, created.OtpExpiresAt = nil, nil
	created.CreatedAt, created.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx, query,
		created.ID, created.Name, created.Email, created.PasswordHash, created.CreatedAt, created.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &created, nil
}

func (r *PostgresRepository) SetOtp(ctx context.Context, email, otp string, expiresAt time.Time) (*models.User, error) {
	query :=
		`UPDATE users SET otp = $2, otp_expires_at = $3, updated_at = $4
		 WHERE email = $1
		 RETURNING ` + userColumns

	return scanUser(r.db.QueryRowContext(ctx, query, email, otp, expiresAt.UTC(), r.now().UTC()))
}

// UpdatePasswordAndClearOtp locks the row, re-checks the stored code and
// only then swaps the hash, so two confirmations of the same code cannot
// both succeed.
func (r *PostgresRepository) UpdatePasswordAndClearOtp(ctx context.Context, userID, otp, passwordHash string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var stored sql.NullString
		err := tx.QueryRowContext(ctx,
			`SELECT otp FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&stored)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("db error: %w", err)
		}

		if !stored.Valid || stored.String != otp {
			return common.ErrorNotFound
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE users SET password_hash = $2, otp = NULL, otp_expires_at = NULL, updated_at = $3
			 WHERE id = $1`, userID, passwordHash, r.now().UTC())
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}
