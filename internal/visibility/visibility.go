// Package visibility はパスワード・メールアドレスの表示切り替え状態を扱います。
package visibility

import (
	"strings"
	"unicode/utf8"
)

// MaskChar はマスク表示に使う文字です。
const MaskChar = "*"

// 切り替えボタンの識別子（フォームの action 値）
const (
	TogglePassword = "toggle-password"
	ToggleEmail    = "toggle-email"
)

// Toggles はフォーム1件ぶんの表示フラグです。
// 値は表示だけを変え、送信される入力値には影響しません。
type Toggles struct {
	ShowPassword bool `form:"showPassword"`
	MaskEmail    bool `form:"maskEmail"`
}

// Flip は action に対応するフラグを反転します。未知の action なら false を返します。
func (t *Toggles) Flip(action string) bool {
	switch action {
	case TogglePassword:
		t.ShowPassword = !t.ShowPassword
	case ToggleEmail:
		t.MaskEmail = !t.MaskEmail
	default:
		return false
	}
	return true
}

// PasswordInputType はパスワード入力欄の type 属性を返します。
func (t Toggles) PasswordInputType() string {
	if t.ShowPassword {
		return "text"
	}
	return "password"
}

// EmailDisplay はメールアドレス欄に表示する文字列を返します。
func (t Toggles) EmailDisplay(email string) string {
	if t.MaskEmail {
		return Mask(email)
	}
	return email
}

// Mask は value と同じ文字数のマスク文字列を返します。
func Mask(value string) string {
	return strings.Repeat(MaskChar, utf8.RuneCountInString(value))
}
