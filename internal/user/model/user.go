package model

import "github.com/google/uuid"

// User は登録済みの利用者を表す。
// UsernameとEmailは全ユーザーで一意。Passwordはbcryptダイジェストであり、
// レスポンスにシリアライズしてはならない。
type User struct {
	// ID は内部用の主キー。外部には公開しない。
	ID int64 `json:"-"`
	// UUID は外部公開用の一意識別子。
	UUID string `json:"uuid"`
	// Email はログイン用メールアドレス（一意）。
	Email string `json:"email"`
	// Username は表示用ユーザー名（一意）。
	Username string `json:"username"`
	// Password はbcryptダイジェスト。書き込み専用。
	Password string `json:"-"`
	// IsAdmin は管理者フラグ。
	IsAdmin bool `json:"is_admin"`
	// IsActive は有効フラグ。
	IsActive bool `json:"is_active"`
	// EmailVerified はメールアドレス確認済みフラグ。
	EmailVerified bool `json:"email_verified"`
	// ProfileImageURL はプロフィール画像のURL。
	ProfileImageURL string `json:"profile_image_url"`
	// PhoneNumber は電話番号。
	PhoneNumber string `json:"phone_number"`

	Audit
}

// userColumns はusersテーブルのカラム定義。主キーが先頭。
var userColumns = append([]string{
	"id", "uuid", "email", "username", "password",
	"is_admin", "is_active", "email_verified",
	"profile_image_url", "phone_number",
}, auditColumns...)

// NewUser はUUIDとデフォルト値を設定した新しいUserを生成する。
func NewUser() *User {
	return &User{
		UUID:     uuid.New().String(),
		IsActive: true,
	}
}

// TableName はEntityインターフェースを実装する。
func (u *User) TableName() string {
	return "users"
}

// Columns はEntityインターフェースを実装する。
func (u *User) Columns() []string {
	return userColumns
}

// PrimaryKey はEntityインターフェースを実装する。
func (u *User) PrimaryKey() int64 {
	return u.ID
}

// FieldRef はEntityインターフェースを実装する。
func (u *User) FieldRef(column string) (any, bool) {
	switch column {
	case "id":
		return &u.ID, true
	case "uuid":
		return &u.UUID, true
	case "email":
		return &u.Email, true
	case "username":
		return &u.Username, true
	case "password":
		return &u.Password, true
	case "is_admin":
		return &u.IsAdmin, true
	case "is_active":
		return &u.IsActive, true
	case "email_verified":
		return &u.EmailVerified, true
	case "profile_image_url":
		return &u.ProfileImageURL, true
	case "phone_number":
		return &u.PhoneNumber, true
	default:
		return u.auditFieldRef(column)
	}
}
