package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sufairath-nisar/assessment-aug5-2024/internal/account"
	"github.com/sufairath-nisar/assessment-aug5-2024/internal/auth"
	"github.com/sufairath-nisar/assessment-aug5-2024/internal/backend"
	"github.com/sufairath-nisar/assessment-aug5-2024/internal/form"
	"github.com/sufairath-nisar/assessment-aug5-2024/internal/submit"
	"github.com/sufairath-nisar/assessment-aug5-2024/internal/visibility"
)

// SignUpSucceeded はサインアップ完了後にサインイン画面で表示する文言です。
const SignUpSucceeded = "Your account has been created. Please sign in."

// Accounts は送信処理です（*account.Service が実装します）。
type Accounts interface {
	SignIn(ctx context.Context, record *form.SignIn, token string) (*account.Outcome, error)
	SignUp(ctx context.Context, record *form.SignUp, token string) (*account.Outcome, error)
}

// Options はルーティングに必要な依存です。
type Options struct {
	Accounts  Accounts
	Sessions  *auth.Manager
	Logger    *zap.Logger
	StaticDir string
}

// formState はフォームの hidden フィールドと押されたボタンです。
// Submitted と APIError は直近の送信結果を表示切り替えの往復で保つためのものです。
type formState struct {
	Action    string `form:"action"`
	FormToken string `form:"formToken"`
	Submitted bool   `form:"submitted"`
	APIError  string `form:"apiError"`
	visibility.Toggles
}

type signInSubmission struct {
	form.SignIn
	formState
}

type signUpSubmission struct {
	form.SignUp
	formState
}

type handlers struct {
	accounts Accounts
	sessions *auth.Manager
	logger   *zap.Logger
}

// Register は画面とAPIのルートを登録します。
// セッションミドルウェアは呼び出し側で登録しておく必要があります。
func Register(router *gin.Engine, opts Options) error {
	if opts.Accounts == nil {
		return fmt.Errorf("accounts is nil")
	}
	if opts.Sessions == nil {
		return fmt.Errorf("sessions is nil")
	}
	tmpl, err := LoadTemplates()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handlers{
		accounts: opts.Accounts,
		sessions: opts.Sessions,
		logger:   logger,
	}

	router.GET("/health", handleHealth)
	if opts.StaticDir != "" {
		router.Static("/images", opts.StaticDir)
	}

	pages := router.Group("")
	pages.Use(opts.Sessions.LoadUser())
	{
		pages.GET("/", h.showSignIn)
		pages.GET("/signup", h.showSignUp)
		pages.GET("/forgot-password", h.showForgotPassword)

		forms := pages.Group("")
		forms.Use(opts.Sessions.VerifyCSRF())
		{
			forms.POST("/", h.submitSignIn)
			forms.POST("/signup", h.submitSignUp)
			forms.POST("/signout", opts.Sessions.RequireLogin(), opts.Sessions.Logout)
		}
	}

	// スクリプト向けAPIはセッションを前提としないので CSRF 検証は不要
	api := router.Group("/api")
	{
		api.POST("/signin", h.apiSignIn)
		api.POST("/signup", h.apiSignUp)
	}
	return nil
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "smn-web",
	})
}

func (h *handlers) showSignIn(c *gin.Context) {
	ctrl := form.NewController(&form.SignIn{})
	h.render(c, http.StatusOK, "signin.html", "Sign in", signInForm, ctrl, formState{})
}

func (h *handlers) showSignUp(c *gin.Context) {
	ctrl := form.NewController(&form.SignUp{})
	h.render(c, http.StatusOK, "signup.html", "Sign up", signUpForm, ctrl, formState{})
}

func (h *handlers) showForgotPassword(c *gin.Context) {
	c.HTML(http.StatusOK, "forgot_password.html", page{
		Title:   "Forgot password",
		Flashes: h.flashes(c),
	})
}

func (h *handlers) submitSignIn(c *gin.Context) {
	var sub signInSubmission
	if err := c.ShouldBind(&sub); err != nil {
		respondInvalidInput(c)
		return
	}
	record := &sub.SignIn
	ctrl := form.NewController(record)

	// 表示切り替えボタンは送信せずに再描画する
	if sub.Toggles.Flip(sub.Action) {
		restore(ctrl, sub.formState)
		h.render(c, http.StatusOK, "signin.html", "Sign in", signInForm, ctrl, sub.formState)
		return
	}

	ok := ctrl.Submit(c.Request.Context(), func(ctx context.Context) error {
		outcome, err := h.accounts.SignIn(upstreamContext(ctx, c), record, sub.FormToken)
		if err != nil {
			return err
		}
		relayCookies(c, outcome)
		return h.sessions.SignIn(c, record.Username, record.KeepSignedIn)
	})
	if ok {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	sub.Submitted = true
	h.render(c, failureStatus(ctrl), "signin.html", "Sign in", signInForm, ctrl, sub.formState)
}

func (h *handlers) submitSignUp(c *gin.Context) {
	var sub signUpSubmission
	if err := c.ShouldBind(&sub); err != nil {
		respondInvalidInput(c)
		return
	}
	record := &sub.SignUp
	ctrl := form.NewController(record)

	if sub.Toggles.Flip(sub.Action) {
		restore(ctrl, sub.formState)
		h.render(c, http.StatusOK, "signup.html", "Sign up", signUpForm, ctrl, sub.formState)
		return
	}

	ok := ctrl.Submit(c.Request.Context(), func(ctx context.Context) error {
		outcome, err := h.accounts.SignUp(upstreamContext(ctx, c), record, sub.FormToken)
		if err != nil {
			return err
		}
		relayCookies(c, outcome)
		return h.sessions.AddFlash(c, SignUpSucceeded)
	})
	if ok {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	sub.Submitted = true
	h.render(c, failureStatus(ctrl), "signup.html", "Sign up", signUpForm, ctrl, sub.formState)
}

func (h *handlers) render(c *gin.Context, status int, name, title string, kind formKind, ctrl *form.Controller, state formState) {
	csrf, err := h.sessions.CSRFToken(c)
	if err != nil {
		h.logger.Error("failed to issue csrf token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "SESSION_SAVE_FAILED",
			"message": "Failed to prepare the form. Please reload the page.",
		})
		return
	}

	c.HTML(status, name, page{
		Title:     title,
		CSRFToken: csrf,
		FormToken: submit.NewToken(),
		Flashes:   h.flashes(c),
		User:      h.sessions.SignedInUser(c),
		APIError:  ctrl.APIError(),
		Submitted: state.Submitted,
		Toggles:   state.Toggles,
		Fields:    buildFields(kind, ctrl, state.Toggles),
	})
}

func (h *handlers) flashes(c *gin.Context) []string {
	messages, err := h.sessions.Flashes(c)
	if err != nil {
		h.logger.Warn("failed to clear flash messages", zap.Error(err))
	}
	return messages
}

// restore は送信済みのフォームで直近の検証結果と ApiError を表示し直します。送信はしません。
func restore(ctrl *form.Controller, state formState) {
	if !state.Submitted {
		return
	}
	ctrl.Restore(knownAPIError(state.APIError))
}

// knownAPIError は hidden フィールドから戻ってきた ApiError のうち、こちらが出した文言だけを返します。
func knownAPIError(message string) string {
	switch message {
	case form.GenericError,
		account.SignInNameUsed,
		account.SignUpNameUsed,
		account.SignUpAlreadyUsed,
		submit.DuplicateMessage:
		return message
	default:
		return ""
	}
}

// failureStatus は検証エラーなら 422、送信失敗なら 200 を返します。
func failureStatus(ctrl *form.Controller) int {
	if !ctrl.Valid() {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

// upstreamContext はブラウザのクッキーをAPIリクエストに引き継ぎます（自前のセッションクッキーは除く）。
func upstreamContext(ctx context.Context, c *gin.Context) context.Context {
	var forward []*http.Cookie
	for _, cookie := range c.Request.Cookies() {
		if cookie.Name == auth.SessionCookieName {
			continue
		}
		forward = append(forward, cookie)
	}
	return backend.WithCookies(ctx, forward)
}

func relayCookies(c *gin.Context, outcome *account.Outcome) {
	if outcome == nil {
		return
	}
	for _, cookie := range outcome.Cookies {
		http.SetCookie(c.Writer, cookie)
	}
}

func respondInvalidInput(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    "INVALID_INPUT",
		"message": "The submitted form could not be read.",
	})
}
