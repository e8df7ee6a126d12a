// Package form はサインイン/サインアップフォームの入力値、検証、送信制御を提供します。
package form

// Field はフォーム入力要素の静的な定義です。
type Field struct {
	Name        string
	Type        string // text, password, email, checkbox
	Placeholder string
	Label       string
}

// Record はフォーム1件分の現在の入力値です。
type Record interface {
	Fields() []Field
	Value(field string) string
	Checked(field string) bool
	Validate() Errors
}

// SignIn はサインインフォームの入力値です。
type SignIn struct {
	Username     string `form:"username" json:"username" validate:"required"`
	Password     string `form:"password" json:"password" validate:"min=7,lowercase_letter,uppercase_letter,two_digits,special_char,required"`
	KeepSignedIn bool   `form:"keepMeSignedIn" json:"keepMeSignedIn"`
}

var signInFields = []Field{
	{Name: "username", Type: "text", Placeholder: "User name or Phone number"},
	{Name: "password", Type: "password", Placeholder: "Password"},
	{Name: "keepMeSignedIn", Type: "checkbox", Label: "Keep me signed in"},
}

// Fields はフォームの入力要素を表示順に返します。
func (r *SignIn) Fields() []Field { return signInFields }

// Value は文字列フィールドの値を返します。
func (r *SignIn) Value(field string) string {
	switch field {
	case "username":
		return r.Username
	case "password":
		return r.Password
	}
	return ""
}

// Checked はチェックボックスの状態を返します。
func (r *SignIn) Checked(field string) bool {
	return field == "keepMeSignedIn" && r.KeepSignedIn
}

// Validate は入力値全体を検証します。
func (r *SignIn) Validate() Errors { return validateRecord(r) }

// SignUp はサインアップフォームの入力値です。
// JSON 表現はそのままサインアップAPIのリクエストボディになります。
type SignUp struct {
	FirstName       string `form:"firstName" json:"firstName" validate:"required"`
	LastName        string `form:"lastName" json:"lastName" validate:"required"`
	Email           string `form:"email" json:"email" validate:"required,email"`
	PhoneNumber     string `form:"phoneNumber" json:"phoneNumber" validate:"number,required"`
	KitchenName     string `form:"kitchenName" json:"kitchenName" validate:"required"`
	Password        string `form:"password" json:"password" validate:"min=7,lowercase_letter,uppercase_letter,two_digits,special_char,required"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword" validate:"eqfield=Password,required"`
	AcceptTerms     bool   `form:"acceptOurTerms" json:"acceptOurTerms" validate:"eq=true"`
}

var signUpFields = []Field{
	{Name: "firstName", Type: "text", Placeholder: "First Name"},
	{Name: "lastName", Type: "text", Placeholder: "Last Name"},
	{Name: "email", Type: "email", Placeholder: "Email"},
	{Name: "phoneNumber", Type: "text", Placeholder: "Phone Number"},
	{Name: "kitchenName", Type: "text", Placeholder: "Your Kitchen Name"},
	{Name: "password", Type: "password", Placeholder: "Password"},
	{Name: "confirmPassword", Type: "password", Placeholder: "Confirm Password"},
	{Name: "acceptOurTerms", Type: "checkbox", Label: "Accept our terms"},
}

// Fields はフォームの入力要素を表示順に返します。
func (r *SignUp) Fields() []Field { return signUpFields }

// Value は文字列フィールドの値を返します。
func (r *SignUp) Value(field string) string {
	switch field {
	case "firstName":
		return r.FirstName
	case "lastName":
		return r.LastName
	case "email":
		return r.Email
	case "phoneNumber":
		return r.PhoneNumber
	case "kitchenName":
		return r.KitchenName
	case "password":
		return r.Password
	case "confirmPassword":
		return r.ConfirmPassword
	}
	return ""
}

// Checked はチェックボックスの状態を返します。
func (r *SignUp) Checked(field string) bool {
	return field == "acceptOurTerms" && r.AcceptTerms
}

// Validate は入力値全体を検証します。
func (r *SignUp) Validate() Errors { return validateRecord(r) }
