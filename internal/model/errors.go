package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// プロトコル上固定のメッセージと、UIに表示する原因カテゴリ・対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ（クライアントが判別に利用するため固定文字列）
	Category string // カテゴリ: auth, validation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeTokenInvalid        = "TOKEN_INVALID"
	ErrCodeRefreshTokenInvalid = "REFRESH_TOKEN_INVALID"
	ErrCodeUserInactive        = "USER_INACTIVE"
	ErrCodeEmailTaken          = "EMAIL_TAKEN"
	ErrCodeUnprocessable       = "UNPROCESSABLE"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
)

// NewInvalidCredentialsError はログイン失敗エラーを生成する。
// メールアドレス不明とパスワード不一致を区別しない単一メッセージを返す
// （どちらが誤っているかを漏らさないため）。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Email or password is incorrect",
		Category: "auth",
		Action:   "メールアドレスとパスワードを確認してください。",
	}
}

// NewTokenInvalidError はアクセストークンのデコード失敗エラーを生成する。
// 署名不正・構造不正のトークンに対して返す。セッション失効とは区別する。
func NewTokenInvalidError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenInvalid,
		Message:  "Could not validate credentials",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewRefreshTokenInvalidError はリフレッシュレコードの不在または期限切れエラーを生成する。
// トークン自体は正当だがセッションが失効している場合に返す。
func NewRefreshTokenInvalidError() *APIError {
	return &APIError{
		Code:     ErrCodeRefreshTokenInvalid,
		Message:  "Refresh token invalid",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewUserInactiveError は無効化済みユーザーのアクセスエラーを生成する。
func NewUserInactiveError() *APIError {
	return &APIError{
		Code:     ErrCodeUserInactive,
		Message:  "User is inactive",
		Category: "auth",
		Action:   "管理者に問い合わせてください。",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "Email is already registered",
		Category: "validation",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewUnprocessableError は入力形式不正または保存失敗エラーを生成する。
func NewUnprocessableError() *APIError {
	return &APIError{
		Code:     ErrCodeUnprocessable,
		Message:  "Unprocessable entity",
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "User not found",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}
