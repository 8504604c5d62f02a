package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/authman/internal/model"
)

// PostgresRefreshTokenRepo はPostgreSQLを使用したリフレッシュトークンリポジトリ。
type PostgresRefreshTokenRepo struct {
	db *sql.DB
}

// NewPostgresRefreshTokenRepo はPostgresRefreshTokenRepoを生成する。
func NewPostgresRefreshTokenRepo(db *sql.DB) *PostgresRefreshTokenRepo {
	return &PostgresRefreshTokenRepo{db: db}
}

// Create はリフレッシュトークンレコードを作成する。
func (r *PostgresRefreshTokenRepo) Create(ctx context.Context, rec *model.RefreshToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, user_id, jti, refresh_token, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.UserID, rec.JTI, rec.Token, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

// FindByJTI はペアリング識別子でレコードを検索する。見つからない場合はnilを返す。
func (r *PostgresRefreshTokenRepo) FindByJTI(ctx context.Context, jti string) (*model.RefreshToken, error) {
	rec := &model.RefreshToken{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, jti, refresh_token, created_at
		 FROM refresh_tokens
		 WHERE jti = $1`,
		jti,
	).Scan(&rec.ID, &rec.UserID, &rec.JTI, &rec.Token, &rec.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}

	return rec, nil
}

// DeleteByID は指定IDのレコードを削除する。
// 対象が存在しない場合もエラーにはならない（競合する失効処理との重複を許容する）。
func (r *PostgresRefreshTokenRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// DeleteOlderThan は作成からage以上経過したレコードを削除し、削除件数を返す。
func (r *PostgresRefreshTokenRepo) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	interval := fmt.Sprintf("%d seconds", int64(age.Seconds()))

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE created_at < now() - $1::interval`,
		interval,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

// compile-time interface check
var _ RefreshTokenRepository = (*PostgresRefreshTokenRepo)(nil)
