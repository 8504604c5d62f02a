// Package auth は認証プロトコル（登録・ログイン・検証・サイレント更新・ログアウト）の
// ビジネスロジックを提供する。
//
// ログインごとにランダムなペアリング識別子（JTI）を発行し、同一のJTIを持つ
// アクセストークンとリフレッシュトークンのペアを生成する。リフレッシュトークンは
// クライアントには返さず、永続レコードとしてのみ保持する。アクセストークンの
// 期限切れを検証時に検出した場合、リフレッシュトークンが有効である限り
// 同じJTIで新しいアクセストークンを再発行する（サイレント更新）。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/authman/internal/metrics"
	"github.com/hitoshi/authman/internal/model"
	"github.com/hitoshi/authman/internal/repository"
	"github.com/hitoshi/authman/internal/security"
	"github.com/hitoshi/authman/internal/token"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	AccessTokenTTL  time.Duration // アクセストークンの有効期間（短期）
	RefreshTokenTTL time.Duration // リフレッシュトークンの有効期間（長期）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	codec     *token.Codec
	hasher    *security.PasswordHasher
	metrics   metrics.Recorder
	config    ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	codec *token.Codec,
	hasher *security.PasswordHasher,
	rec metrics.Recorder,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		codec:     codec,
		hasher:    hasher,
		metrics:   rec,
		config:    config,
	}
}

// Register は新規ユーザーを登録する。
// メールアドレスが既に使用されている場合はEmailTakenエラーを返す。
// 作成されたユーザーはstatus=active、role=memberで初期化される。
func (s *Service) Register(ctx context.Context, email, password string) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailTakenError()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Status:       model.UserStatusActive,
		Role:         model.UserRoleMember,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// UNIQUE制約違反（登録競合）を含む保存失敗はUnprocessableとして返す
		slog.Error("failed to create user", slog.String("error", err.Error()))
		return nil, model.NewUnprocessableError()
	}

	s.metrics.RecordRegister()
	slog.Info("user registered",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// Login はメールアドレスとパスワードで認証し、アクセストークンを発行する。
// ユーザー不在とパスワード不一致は同一のエラーにまとめる。
// 成功時は新しいペアリング識別子でトークンペアを発行し、
// リフレッシュトークンを永続レコードとして保存する。
// クライアントに返すのはアクセストークンのみ。
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find user by email: %w", err)
	}

	if user == nil || !s.hasher.Verify(password, user.PasswordHash) {
		s.metrics.RecordLoginFailure()
		return "", model.NewInvalidCredentialsError()
	}

	jti := uuid.New().String()

	accessToken, err := s.codec.Issue(user.ID, user.Email, jti, s.config.AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := s.codec.Issue(user.ID, user.Email, jti, s.config.RefreshTokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue refresh token: %w", err)
	}

	rec := &model.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		JTI:       jti,
		Token:     refreshToken,
		CreatedAt: time.Now(),
	}

	if err := s.tokenRepo.Create(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to persist refresh token: %w", err)
	}

	s.metrics.RecordLoginSuccess()
	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("jti", jti),
	)

	return accessToken, nil
}

// Logout はアクセストークンに対応するリフレッシュレコードを削除する。
// トークンがデコードできない場合はTokenInvalid、レコードが既に存在しない場合は
// RefreshTokenInvalidを返す（ログアウト済みトークンでの再ログアウトは失敗する）。
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.codec.Decode(accessToken)
	if err != nil {
		return model.NewTokenInvalidError()
	}

	rec, err := s.tokenRepo.FindByJTI(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("failed to find refresh token: %w", err)
	}
	if rec == nil {
		return model.NewRefreshTokenInvalidError()
	}

	if err := s.tokenRepo.DeleteByID(ctx, rec.ID); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	s.metrics.RecordRevocation(metrics.RevocationReasonLogout)
	slog.Info("user logged out",
		slog.String("user_id", claims.UserID),
		slog.String("jti", claims.ID),
	)

	return nil
}

// Authenticate はアクセストークンを検証し、認証済み識別情報を返す。
//
// 検証は以下の順に行う:
//  1. アクセストークンのデコード（署名検証のみ）。失敗はTokenInvalid。
//  2. JTIに対応するリフレッシュレコードの検索。不在はRefreshTokenInvalid。
//  3. ユーザーのロードと有効状態の確認。無効ユーザーはUserInactive。
//  4. 保存済みリフレッシュトークンの期限判定。期限切れならレコードを削除して
//     RefreshTokenInvalid（失効は検証時に反応的に行われる）。
//  5. アクセストークンが期限切れならサイレント更新: 同じJTIで新しい
//     アクセストークンを発行し、Identity.RenewedTokenに載せる。
//
// サイレント更新はレコードを変更しないため、同一JTIに対する並行更新は冪等。
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*model.Identity, error) {
	claims, err := s.codec.Decode(accessToken)
	if err != nil {
		return nil, model.NewTokenInvalidError()
	}

	rec, err := s.tokenRepo.FindByJTI(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	if rec == nil {
		return nil, model.NewRefreshTokenInvalidError()
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewTokenInvalidError()
	}
	if user.Status == model.UserStatusInactive {
		return nil, model.NewUserInactiveError()
	}

	refreshClaims, err := s.codec.Decode(rec.Token)
	if err != nil {
		// 保存済みリフレッシュトークンがデコードできない場合は失効扱いにする
		// （シークレット変更後の残存レコード等）
		if delErr := s.tokenRepo.DeleteByID(ctx, rec.ID); delErr != nil {
			slog.Error("failed to delete undecodable refresh token",
				slog.String("error", delErr.Error()),
			)
		}
		return nil, model.NewRefreshTokenInvalidError()
	}

	now := time.Now()

	if refreshClaims.Expired(now) {
		if err := s.tokenRepo.DeleteByID(ctx, rec.ID); err != nil {
			slog.Error("failed to revoke expired refresh token",
				slog.String("error", err.Error()),
			)
		}
		s.metrics.RecordRevocation(metrics.RevocationReasonRefreshExpired)
		slog.Info("refresh token expired, session revoked",
			slog.String("user_id", claims.UserID),
			slog.String("jti", claims.ID),
		)
		return nil, model.NewRefreshTokenInvalidError()
	}

	ident := &model.Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		JTI:    claims.ID,
	}

	if claims.Expired(now) {
		renewed, err := s.codec.Issue(claims.UserID, claims.Email, claims.ID, s.config.AccessTokenTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to renew access token: %w", err)
		}
		ident.RenewedToken = renewed

		s.metrics.RecordTokenRenewal()
		slog.Info("access token silently renewed",
			slog.String("user_id", claims.UserID),
			slog.String("jti", claims.ID),
		)
	}

	return ident, nil
}

// Profile は認証済みユーザーのプロフィールを取得する。
// userIDには検証済みアクセストークンのクレームのユーザーIDを渡す
// （検証通過後はクレームのIDを正とする）。
func (s *Service) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	return user, nil
}
