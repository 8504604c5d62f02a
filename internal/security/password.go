// Package security はパスワードハッシュ化などの認証基盤機能を提供する。
package security

import "golang.org/x/crypto/bcrypt"

// PasswordHasher はbcryptによるパスワードのハッシュ化と照合を提供する。
// ハッシュは一方向であり、平文パスワードをログや永続化に含めてはならない。
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher は指定されたbcryptコストのPasswordHasherを生成する。
// コストが範囲外の場合はbcryptの許容範囲にクランプする。0以下はデフォルトコスト。
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash は平文パスワードのbcryptハッシュを生成する。
func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify は平文パスワードが保存済みハッシュと一致するかを返す。
func (h *PasswordHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
