// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/authman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error
}

// RefreshTokenRepository はリフレッシュトークンレコードの永続化インターフェース。
// 検証ロジックは持たず、純粋な永続化のみを担う。
// 同時リクエストからのcreate/find/deleteはDBのトランザクションで整合性を保つ。
type RefreshTokenRepository interface {
	// Create はリフレッシュトークンレコードを作成する。
	// JTIの一意性は呼び出し側がランダム生成で保証する。
	Create(ctx context.Context, rec *model.RefreshToken) error

	// FindByJTI はペアリング識別子でレコードを検索する。見つからない場合はnilを返す。
	FindByJTI(ctx context.Context, jti string) (*model.RefreshToken, error)

	// DeleteByID は指定IDのレコードを削除する。
	DeleteByID(ctx context.Context, id string) error

	// DeleteOlderThan は作成からage以上経過したレコードを削除し、削除件数を返す。
	// リフレッシュトークンの有効期間を過ぎたレコードのガベージコレクション用。
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}
