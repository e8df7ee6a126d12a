// Package web はサインイン/サインアップ画面のルーティングと描画を提供します。
package web

import (
	"embed"
	"html/template"

	"github.com/sufairath-nisar/assessment-aug5-2024/internal/form"
	"github.com/sufairath-nisar/assessment-aug5-2024/internal/visibility"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates は埋め込みテンプレートを読み込みます。
func LoadTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// page はテンプレートに渡す画面データです。
type page struct {
	Title     string
	CSRFToken string
	FormToken string
	Flashes   []string
	User      string
	APIError  string
	Submitted bool
	Toggles   visibility.Toggles
	Fields    []fieldView
}

// fieldView は入力要素1つぶんの描画データです。
type fieldView struct {
	form.Binding
	Display     string
	Masked      bool
	Toggle      string
	ToggleLabel string
}

type formKind int

const (
	signInForm formKind = iota
	signUpForm
)

// buildFields はコントローラーのバインディングに表示切り替えを反映します。
// パスワードの表示切り替えはサインイン、メールのマスクはサインアップのみです。
func buildFields(kind formKind, ctrl *form.Controller, toggles visibility.Toggles) []fieldView {
	fields := ctrl.Record().Fields()
	views := make([]fieldView, 0, len(fields))
	for _, f := range fields {
		view := fieldView{Binding: ctrl.Bind(f.Name)}
		switch {
		case kind == signInForm && f.Name == "password":
			view.Type = toggles.PasswordInputType()
			view.Toggle = visibility.TogglePassword
			view.ToggleLabel = "Show"
			if toggles.ShowPassword {
				view.ToggleLabel = "Hide"
			}
		case kind == signUpForm && f.Name == "email":
			view.Toggle = visibility.ToggleEmail
			view.ToggleLabel = "Hide"
			view.Display = toggles.EmailDisplay(view.Value)
			view.Masked = toggles.MaskEmail
		}
		views = append(views, view)
	}
	return views
}
