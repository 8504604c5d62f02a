package model

import "time"

// RefreshToken はログインごとに1件発行される永続リフレッシュトークンレコードを表す。
// JTIはアクセストークン/リフレッシュトークンのペアを紐付けるペアリング識別子で、
// 同一のJTIを持つ有効なレコードが存在しないアクセストークンは署名が正しくても無効。
// レコードはログアウトまたは検証時のリフレッシュ期限切れ検出で削除される。
type RefreshToken struct {
	ID        string
	UserID    string
	JTI       string
	Token     string // 署名済みリフレッシュトークン文字列。クライアントには返さない。
	CreatedAt time.Time
}

// Identity は検証済みアクセストークンのクレームから得られた認証済み識別情報を表す。
// RenewedTokenはサイレント更新が行われた場合のみ非空で、
// クライアントへ差し替え用トークンとして返却される。
type Identity struct {
	UserID       string
	Email        string
	JTI          string
	RenewedToken string
}
