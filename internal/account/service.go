// Package account はサインイン/サインアップの送信処理（API呼び出しと応答の解釈）を提供します。
package account

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/sufairath-nisar/assessment-aug5-2024/internal/backend"
	"github.com/sufairath-nisar/assessment-aug5-2024/internal/form"
	"github.com/sufairath-nisar/assessment-aug5-2024/internal/submit"
)

// 名前の重複時に表示する文言
const (
	SignInNameUsed    = "This name is used.Please use another name"
	SignUpNameUsed    = "This username is used, please use another name."
	SignUpAlreadyUsed = "This username is already used. Please choose another."
)

// API はクライアント認証APIの呼び出しです（*backend.Client が実装します）。
type API interface {
	SignIn(ctx context.Context, username, password string) (*backend.Reply, error)
	ClientDetails(ctx context.Context, firstName string) (*backend.Reply, error)
	SignUp(ctx context.Context, record *form.SignUp) (*backend.Reply, error)
}

// Outcome は送信成功時の結果です。
type Outcome struct {
	// Cookies はAPIが発行したクッキーです。ブラウザへ中継します。
	Cookies []*http.Cookie
}

// Service は検証済みレコードをAPIへ送信します。レコード自体は変更しません。
type Service struct {
	api    API
	guard  submit.Guard
	logger *zap.Logger
}

// NewService は Service を作成します。guard が nil なら二重送信チェックを行いません。
func NewService(api API, guard submit.Guard, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:    api,
		guard:  guard,
		logger: logger,
	}
}

// SignIn はサインインAPIを1回呼びます。
// exists が真の場合は *form.SubmitError、通信・解析の失敗はそのままのエラーを返します。
func (s *Service) SignIn(ctx context.Context, record *form.SignIn, token string) (*Outcome, error) {
	if err := s.claim(ctx, token); err != nil {
		return nil, err
	}

	reply, err := s.api.SignIn(ctx, record.Username, record.Password)
	if err != nil {
		s.logger.Warn("Error checking username", zap.String("username", record.Username), zap.Error(err))
		return nil, err
	}
	if reply.Exists {
		return nil, form.Rejected(SignInNameUsed)
	}

	s.logger.Info("client signed in", zap.String("username", record.Username), zap.Bool("keepSignedIn", record.KeepSignedIn))
	return &Outcome{Cookies: reply.Cookies}, nil
}

// SignUp は名前の重複確認のあとサインアップAPIを呼びます。
func (s *Service) SignUp(ctx context.Context, record *form.SignUp, token string) (*Outcome, error) {
	if err := s.claim(ctx, token); err != nil {
		return nil, err
	}

	details, err := s.api.ClientDetails(ctx, record.FirstName)
	if err != nil {
		s.logger.Warn("Error during signup", zap.String("step", "details"), zap.Error(err))
		return nil, err
	}
	if details.Exists {
		return nil, form.Rejected(SignUpNameUsed)
	}

	reply, err := s.api.SignUp(ctx, record)
	if err != nil {
		s.logger.Warn("Error during signup", zap.String("step", "signup"), zap.Error(err))
		return nil, err
	}
	if reply.Exists {
		return nil, form.Rejected(SignUpAlreadyUsed)
	}

	s.logger.Info("client signed up", zap.String("firstName", record.FirstName), zap.String("kitchenName", record.KitchenName))
	cookies := append(append([]*http.Cookie{}, details.Cookies...), reply.Cookies...)
	return &Outcome{Cookies: cookies}, nil
}

// claim はフォームトークンを使用済みにします。
// トークンなし（JSON API）と形式不正のトークン、ガードの障害時は送信を止めません。
func (s *Service) claim(ctx context.Context, token string) error {
	if s.guard == nil || token == "" {
		return nil
	}
	if !submit.ValidToken(token) {
		s.logger.Warn("malformed form token ignored", zap.Int("length", len(token)))
		return nil
	}
	ok, err := s.guard.Claim(ctx, token)
	if err != nil {
		s.logger.Warn("submit guard unavailable", zap.Error(err))
		return nil
	}
	if !ok {
		return form.Rejected(submit.DuplicateMessage)
	}
	return nil
}
