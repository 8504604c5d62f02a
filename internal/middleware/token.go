// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/authman/internal/model"
)

// RenewedTokenHeader はサイレント更新されたアクセストークンを
// クライアントに返すレスポンスヘッダー名。
const RenewedTokenHeader = "X-Renewed-Token"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストに認証済み識別情報を格納するためのキー。
var identityContextKey = contextKey("identity")

// Authenticator はアクセストークンの検証に必要なインターフェース。
// auth.Serviceの部分集合として定義する。
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*model.Identity, error)
}

// BearerToken はAuthorizationヘッダーからBearerトークンを取り出す。
// ヘッダーが無い、または形式が不正な場合は空文字列を返す。
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return header[len(prefix):]
}

// NewTokenMiddleware はBearerトークンを検証するミドルウェアを返す。
// 検証成功時は認証済み識別情報をリクエストコンテキストに注入する。
// アクセストークンがサイレント更新された場合、新しいトークンを
// X-Renewed-Tokenレスポンスヘッダーで返す。
// 検証失敗は失効理由を区別したメッセージと共に401を返す。
func NewTokenMiddleware(authenticator Authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessToken := BearerToken(r)
			if accessToken == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewTokenInvalidError())
				return
			}

			ident, err := authenticator.Authenticate(r.Context(), accessToken)
			if err != nil {
				var apiErr *model.APIError
				if errors.As(err, &apiErr) {
					WriteErrorResponse(w, http.StatusUnauthorized, apiErr)
					return
				}
				slog.Error("token authentication failed",
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}

			if ident.RenewedToken != "" {
				w.Header().Set(RenewedTokenHeader, ident.RenewedToken)
			}

			ctx := ContextWithIdentity(r.Context(), ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext はリクエストコンテキストから認証済み識別情報を取得する。
// トークンミドルウェアを通過したリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (*model.Identity, error) {
	ident, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok || ident == nil {
		return nil, fmt.Errorf("identity not found in context")
	}
	return ident, nil
}

// UserIDFromContext はリクエストコンテキストから認証済みユーザーIDを取得する。
func UserIDFromContext(ctx context.Context) (string, error) {
	ident, err := IdentityFromContext(ctx)
	if err != nil {
		return "", err
	}
	return ident.UserID, nil
}

// ContextWithIdentity はコンテキストに認証済み識別情報を注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, ident *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, ident)
}
