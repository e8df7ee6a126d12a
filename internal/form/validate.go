package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Errors はフィールド名からエラーメッセージへの対応です（1回の送信試行ぶん）。
type Errors map[string]string

// Empty はエラーが1件もないかを返します。
func (e Errors) Empty() bool { return len(e) == 0 }

// For は表示用（先頭大文字）のメッセージを返します。エラーがなければ空文字です。
func (e Errors) For(field string) string {
	return Capitalize(e[field])
}

// Display は全メッセージを表示用に変換した複製を返します。
func (e Errors) Display() map[string]string {
	out := make(map[string]string, len(e))
	for field, msg := range e {
		out[field] = Capitalize(msg)
	}
	return out
}

// Capitalize は先頭の1文字だけを大文字にします。
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

var (
	lowercasePattern = regexp.MustCompile(`[a-z]`)
	uppercasePattern = regexp.MustCompile(`[A-Z]`)
	twoDigitsPattern = regexp.MustCompile(`[0-9].*[0-9]`)
	specialPattern   = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

var passwordMessages = map[string]string{
	"required":         "Password is required",
	"min":              "Password must be at least 7 characters",
	"lowercase_letter": "Password must contain at least one lowercase letter",
	"uppercase_letter": "Password must contain at least one uppercase letter",
	"two_digits":       "Password must contain at least two numbers",
	"special_char":     "Password must contain at least one special character",
}

// messages はフィールドごと・ルールごとの表示文言です。
var messages = map[string]map[string]string{
	"username": {"required": "username is a required field"},
	"password": passwordMessages,

	"firstName":   {"required": "First name is required"},
	"lastName":    {"required": "Last name is required"},
	"email":       {"required": "Email is required", "email": "Invalid email address"},
	"phoneNumber": {"required": "Phone number is required", "number": "Phone number must be a number"},
	"kitchenName": {"required": "Kitchen name is required"},
	"confirmPassword": {
		"required": "Confirm password is required",
		"eqfield":  "Passwords must match",
	},
	"acceptOurTerms": {"eq": "Please accept our terms"},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// エラーのフィールド名はフォームの name 属性に合わせる
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	mustRegister(v, "lowercase_letter", lowercasePattern)
	mustRegister(v, "uppercase_letter", uppercasePattern)
	mustRegister(v, "two_digits", twoDigitsPattern)
	mustRegister(v, "special_char", specialPattern)
	return v
}

func mustRegister(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("form: register %s: %v", tag, err))
	}
}

// validateRecord はレコードを検証し、フィールドごとに最初に違反したルールの文言を返します。
func validateRecord(record any) Errors {
	result := Errors{}
	err := validate.Struct(record)
	if err == nil {
		return result
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// 検証対象の型が不正な場合のみ到達する
		panic(fmt.Sprintf("form: validate %T: %v", record, err))
	}
	for _, fe := range verrs {
		if _, seen := result[fe.Field()]; seen {
			continue
		}
		result[fe.Field()] = messageFor(fe.Field(), fe.Tag())
	}
	return result
}

func messageFor(field, tag string) string {
	if msg, ok := messages[field][tag]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", field)
}
