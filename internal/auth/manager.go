// Package auth はフロントエンド側のセッション（サインイン状態・CSRF・フラッシュ）を扱います。
// 認証そのものはクライアント認証APIが行います。
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/sufairath-nisar/assessment-aug5-2024/internal/config"
)

const (
	SessionCookieName  = "smn_session"
	sessionKeyUser     = "client_user"
	sessionKeyIssuedAt = "issued_at"
	sessionKeyKeep     = "keep_signed_in"
	sessionKeyCSRF     = "csrf_token"

	// CSRFField はフォームの hidden フィールド名です。
	CSRFField  = "csrf_token"
	csrfHeader = "X-CSRF-Token"
)

// ContextUserKey は、ハンドラー間でサインイン済みユーザー名を共有するためのキーです。
const ContextUserKey = "auth.user"

// Manager はセッションの読み書きをまとめた構造体です。
type Manager struct {
	keepMaxAge int
	secure     bool
	now        func() time.Time
}

// NewManager はセッションマネージャーを作成します。
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		keepMaxAge: cfg.KeepSignedInMaxAge(),
		secure:     cfg.GinMode == gin.ReleaseMode,
		now:        time.Now,
	}
}

// maxSessionLifetime はサインインから KEEP_SIGNED_IN_DAYS を超えたセッションを無効にするための上限です。
func (m *Manager) maxSessionLifetime() time.Duration {
	return time.Duration(m.keepMaxAge) * time.Second
}

// StoreOptions はセッションストアの既定オプションを返します（ブラウザを閉じると消えるクッキー）。
func (m *Manager) StoreOptions() sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SignIn はサインイン済みユーザーをセッションに記録します。
// keep が真ならクッキーを長期間保持します。
func (m *Manager) SignIn(c *gin.Context, username string, keep bool) error {
	session := sessions.Default(c)
	token, err := generateToken()
	if err != nil {
		return err
	}
	session.Set(sessionKeyUser, username)
	session.Set(sessionKeyIssuedAt, m.now().Unix())
	session.Set(sessionKeyKeep, keep)
	// サインインのたびに CSRF トークンを入れ替える
	session.Set(sessionKeyCSRF, token)
	return m.save(session)
}

// SignedInUser は LoadUser が検証したユーザー名を返します。未サインインなら空文字です。
func (m *Manager) SignedInUser(c *gin.Context) string {
	return c.GetString(ContextUserKey)
}

// LoadUser はセッションのサインイン情報を検証して ContextUserKey に載せるミドルウェアです。
// サインインから有効期間を過ぎたセッションはサインイン情報だけを消去します。
func (m *Manager) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		user, ok := session.Get(sessionKeyUser).(string)
		if !ok || user == "" {
			c.Next()
			return
		}

		issuedAt := readUnix(session.Get(sessionKeyIssuedAt))
		if issuedAt.IsZero() || m.now().Sub(issuedAt) > m.maxSessionLifetime() {
			session.Delete(sessionKeyUser)
			session.Delete(sessionKeyIssuedAt)
			session.Delete(sessionKeyKeep)
			if err := m.save(session); err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    "SESSION_SAVE_FAILED",
					"message": "Failed to update the session.",
				})
				return
			}
			c.Next()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireLogin は未サインインのリクエストをサインイン画面へ戻すミドルウェアです。
// LoadUser の後に登録します。
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.SignedInUser(c) == "" {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Logout は POST /signout のハンドラーです。
func (m *Manager) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "SESSION_SAVE_FAILED",
			"message": "Failed to clear the session.",
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// CSRFToken はセッションの CSRF トークンを返します。なければ発行して保存します。
func (m *Manager) CSRFToken(c *gin.Context) (string, error) {
	session := sessions.Default(c)
	if token, ok := session.Get(sessionKeyCSRF).(string); ok && token != "" {
		return token, nil
	}
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	session.Set(sessionKeyCSRF, token)
	if err := m.save(session); err != nil {
		return "", err
	}
	return token, nil
}

// AddFlash は次の画面表示で一度だけ出すメッセージを保存します。
func (m *Manager) AddFlash(c *gin.Context, message string) error {
	session := sessions.Default(c)
	session.AddFlash(message)
	return m.save(session)
}

// Flashes は保存されたメッセージを取り出します（取り出すと消えます）。
// 消去の保存に失敗した場合もメッセージは返します。
func (m *Manager) Flashes(c *gin.Context) ([]string, error) {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil, nil
	}

	messages := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages, m.save(session)
}

// VerifyCSRF は hidden フィールドまたは X-CSRF-Token ヘッダーのトークンを検証するミドルウェアです。
func (m *Manager) VerifyCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		session := sessions.Default(c)
		expected, ok := session.Get(sessionKeyCSRF).(string)
		if !ok || expected == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    "CSRF_MISSING",
				"message": "The form has expired. Please reload the page.",
			})
			return
		}

		received := c.GetHeader(csrfHeader)
		if received == "" {
			received = c.PostForm(CSRFField)
		}
		if subtle.ConstantTimeCompare([]byte(expected), []byte(received)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    "CSRF_INVALID",
				"message": "The form has expired. Please reload the page.",
			})
			return
		}

		c.Next()
	}
}

// save は「ログインしたままにする」の選択に合わせてクッキーの寿命を決めて保存します。
func (m *Manager) save(session sessions.Session) error {
	opts := m.StoreOptions()
	if keep, _ := session.Get(sessionKeyKeep).(bool); keep {
		opts.MaxAge = m.keepMaxAge
	}
	session.Options(opts)
	return session.Save()
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func readUnix(v interface{}) time.Time {
	switch t := v.(type) {
	case int64:
		return time.Unix(t, 0)
	case int:
		return time.Unix(int64(t), 0)
	case float64:
		return time.Unix(int64(t), 0)
	default:
		return time.Time{}
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
