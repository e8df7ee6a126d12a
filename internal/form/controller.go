package form

import (
	"context"
	"errors"
)

// GenericError は通信失敗などで表示する汎用メッセージです。
const GenericError = "An error occurred. Please try again."

// SubmitError は利用者にそのまま表示する送信レベルのエラーです（名前の重複など）。
type SubmitError struct {
	Message string
}

func (e *SubmitError) Error() string { return e.Message }

// Rejected は表示用メッセージを持つ SubmitError を返します。
func Rejected(message string) error {
	return &SubmitError{Message: message}
}

// Message はエラーを ApiError の表示文言に変換します。
func Message(err error) string {
	if err == nil {
		return ""
	}
	var submitErr *SubmitError
	if errors.As(err, &submitErr) {
		return submitErr.Message
	}
	return GenericError
}

// Handler は検証を通過した送信に対して1回だけ呼ばれる処理です。
type Handler func(ctx context.Context) error

// Binding は入力要素1つを描画するための値です。
type Binding struct {
	Field
	Value   string
	Checked bool
	Error   string
}

// Controller はフォーム1件分の入力値・検証結果・ApiError を保持します。
type Controller struct {
	record   Record
	errors   Errors
	apiError string
}

// NewController は Controller を作成します。
func NewController(record Record) *Controller {
	return &Controller{record: record, errors: Errors{}}
}

// Record は保持している入力値を返します。
func (c *Controller) Record() Record { return c.record }

// Bind は指定フィールドの描画用バインディングを返します。
func (c *Controller) Bind(name string) Binding {
	b := Binding{Field: Field{Name: name, Type: "text"}}
	for _, f := range c.record.Fields() {
		if f.Name == name {
			b.Field = f
			break
		}
	}
	if b.Type == "checkbox" {
		b.Checked = c.record.Checked(name)
	} else {
		b.Value = c.record.Value(name)
	}
	b.Error = c.ErrorsFor(name)
	return b
}

// Submit は ApiError を消去して入力値全体を検証し、エラーがなければ handler を1回呼びます。
// handler が成功した場合のみ true を返します。
func (c *Controller) Submit(ctx context.Context, handler Handler) bool {
	c.apiError = ""
	c.errors = c.record.Validate()
	if !c.errors.Empty() {
		return false
	}
	if handler == nil {
		return true
	}
	if err := handler(ctx); err != nil {
		c.apiError = Message(err)
		return false
	}
	return true
}

// Restore は送信済みのフォームを描き直すときに検証結果と ApiError を復元します。handler は呼びません。
func (c *Controller) Restore(apiError string) {
	c.errors = c.record.Validate()
	c.apiError = apiError
}

// ErrorsFor は表示用のフィールドエラーを返します。
func (c *Controller) ErrorsFor(name string) string {
	return c.errors.For(name)
}

// Errors は直近の検証結果を返します。
func (c *Controller) Errors() Errors { return c.errors }

// Valid は直近の検証でエラーがなかったかを返します。
func (c *Controller) Valid() bool { return c.errors.Empty() }

// APIError は直近の送信失敗メッセージを返します。
func (c *Controller) APIError() string { return c.apiError }
