// Package model はドメインモデルを定義する。
package model

import "time"

// UserStatus はユーザーの有効状態を表す。
type UserStatus string

const (
	// UserStatusActive は有効なユーザーを示す。
	UserStatusActive UserStatus = "active"
	// UserStatusInactive は無効化されたユーザーを示す。
	// 無効化されたユーザーのトークンは検証時に拒否される。
	UserStatusInactive UserStatus = "inactive"
)

// UserRole はユーザーのロールを表す。
type UserRole string

const (
	// UserRoleAdmin は管理者ロールを示す。
	UserRoleAdmin UserRole = "admin"
	// UserRoleMember は一般メンバーロールを示す。登録時のデフォルト。
	UserRoleMember UserRole = "member"
)

// User はサービス利用ユーザーを表す。
// PasswordHashはAPIレスポンスに含めてはならない。
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Status       UserStatus
	Role         UserRole
	CreatedAt    time.Time
}
