// Package cleanup はリフレッシュトークンレコードの自動削除ジョブを提供する。
// リフレッシュトークンの有効期間を超過したレコードを日次バッチで削除する。
//
// リクエスト処理中の失効判定は検証時に反応的に行われるため、
// このジョブは純粋なガベージコレクションであり、リクエストの結果を変えることはない。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// TokenDeleter は期限切れレコードの削除に必要なインターフェース。
// repository.RefreshTokenRepositoryの部分集合として定義する。
type TokenDeleter interface {
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// CleanupJob は有効期間を超過したリフレッシュトークンレコードの自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	repo   TokenDeleter
	logger *slog.Logger

	// MaxAge は削除対象とするレコードの経過時間。
	// リフレッシュトークンのTTLにマージンを加えた値を設定する。
	MaxAge time.Duration
}

// NewCleanupJob は新しいCleanupJobを生成する。
// maxAgeにはリフレッシュトークンのTTL以上の値を渡す。
func NewCleanupJob(repo TokenDeleter, logger *slog.Logger, maxAge time.Duration) *CleanupJob {
	return &CleanupJob{
		repo:   repo,
		logger: logger,
		MaxAge: maxAge,
	}
}

// Run は有効期間を超過したリフレッシュトークンレコードを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	deletedCount, err := j.repo.DeleteOlderThan(ctx, j.MaxAge)
	if err != nil {
		j.logger.Error("refresh token cleanup failed",
			slog.String("error", err.Error()),
			slog.Duration("max_age", j.MaxAge),
		)
		return fmt.Errorf("failed to clean up refresh tokens: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("refresh token cleanup completed",
		slog.Int64("deleted_count", deletedCount),
		slog.Duration("max_age", j.MaxAge),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}
