package model

import "github.com/google/uuid"

// 住所種別の値。address_typeカラムに格納される。
const (
	// AddressTypeShipping は配送先住所。
	AddressTypeShipping = "shipping"
	// AddressTypeBilling は請求先住所。
	AddressTypeBilling = "billing"
)

// ValidAddressType は住所種別として受理できる値かどうかを返す。
func ValidAddressType(t string) bool {
	return t == AddressTypeShipping || t == AddressTypeBilling
}

// Address はユーザーが所有する住所を表す。
// UserIDは必ず既存のUserを参照し、所有者本人だけが更新・削除できる。
type Address struct {
	// ID は内部用の主キー。外部には公開しない。
	ID int64 `json:"-"`
	// UUID は外部公開用の一意識別子。
	UUID string `json:"uuid"`
	// StreetAddress は番地・通り名。
	StreetAddress string `json:"street_address"`
	// Apartment は部屋番号など（任意）。
	Apartment string `json:"apartment"`
	// City は市区町村。
	City string `json:"city"`
	// State は州・県（任意）。
	State string `json:"state"`
	// Country は国名。
	Country string `json:"country"`
	// PostalCode は郵便番号（任意）。
	PostalCode string `json:"postal_code"`
	// AddressType は住所種別（shipping / billing）。
	AddressType string `json:"address_type"`
	// UserID は所有者のユーザーID。
	UserID int64 `json:"-"`

	Audit
}

// addressColumns はaddressテーブルのカラム定義。主キーが先頭。
var addressColumns = append([]string{
	"id", "uuid", "street_address", "apartment", "city",
	"state", "country", "postal_code", "address_type", "user_id",
}, auditColumns...)

// NewAddress はUUIDとデフォルト値を設定した新しいAddressを生成する。
func NewAddress() *Address {
	return &Address{
		UUID:        uuid.New().String(),
		AddressType: AddressTypeShipping,
	}
}

// TableName はEntityインターフェースを実装する。
func (a *Address) TableName() string {
	return "address"
}

// Columns はEntityインターフェースを実装する。
func (a *Address) Columns() []string {
	return addressColumns
}

// PrimaryKey はEntityインターフェースを実装する。
func (a *Address) PrimaryKey() int64 {
	return a.ID
}

// FieldRef はEntityインターフェースを実装する。
func (a *Address) FieldRef(column string) (any, bool) {
	switch column {
	case "id":
		return &a.ID, true
	case "uuid":
		return &a.UUID, true
	case "street_address":
		return &a.StreetAddress, true
	case "apartment":
		return &a.Apartment, true
	case "city":
		return &a.City, true
	case "state":
		return &a.State, true
	case "country":
		return &a.Country, true
	case "postal_code":
		return &a.PostalCode, true
	case "address_type":
		return &a.AddressType, true
	case "user_id":
		return &a.UserID, true
	default:
		return a.auditFieldRef(column)
	}
}
