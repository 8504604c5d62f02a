// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/authman/internal/model"
)

// ResponseInfo は成功レスポンスのメタ情報。
type ResponseInfo struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// WebResponse は成功レスポンスの統一エンベロープ。
type WebResponse struct {
	Info ResponseInfo `json:"info"`
	Data interface{}  `json:"data"`
}

// userResponse はユーザー情報のAPIレスポンス。
// パスワードハッシュは外部に出さない。
type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
}

// tokenResponse はログイン成功時のレスポンスデータ。
// 返すのはアクセストークンのみ。リフレッシュトークンはサーバー内に留まる。
type tokenResponse struct {
	Token string `json:"token"`
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Status:    string(user.Status),
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt.Unix(),
	}
}

// writeWebResponse は統一エンベロープで成功レスポンスを書き込む。
func writeWebResponse(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(WebResponse{
		Info: ResponseInfo{
			Status:  statusCode,
			Message: message,
		},
		Data: data,
	})
}
