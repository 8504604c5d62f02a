// Package token は署名付き有効期限トークンのエンコード・デコードを提供する。
// アクセストークンとリフレッシュトークンは構造的に同一で、TTLのみが異なる。
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken は署名検証に失敗した、または構造が不正なトークンを示す。
// 期限切れはこのエラーにはならない（期限判定は呼び出し側の責務）。
var ErrInvalidToken = errors.New("invalid token")

// Claims はアクセストークン/リフレッシュトークン共通のクレームセット。
// ペアリング識別子はRegisteredClaims.ID（jtiクレーム）に格納される。
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Expired はnowがトークンの有効期限以降かどうかを返す。
// expクレームを持たないトークンは期限切れとして扱う。
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !now.Before(c.ExpiresAt.Time)
}

// Codec はプロセス共通のシークレットでトークンを署名・検証する。
// 署名アルゴリズムはHS256固定。キーローテーションは行わない。
type Codec struct {
	secret []byte
}

// NewCodec はCodecを生成する。
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue はクレームとTTLから署名付きトークン文字列を生成する。
// 有効期限は現在時刻 + ttlの絶対時刻として埋め込まれる。
func (c *Codec) Issue(userID, email, jti string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Decode はトークンの署名と構造のみを検証し、クレームを返す。
// 期限切れでも署名が正しければ成功する。呼び出し側が
// 「期限切れだが正当（更新可能）」と「偽造・破損（即時拒否）」を
// 区別する必要があるため、クレームの時刻検証は意図的に行わない。
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	t, err := parser.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
