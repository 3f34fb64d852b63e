// Package model はユーザーサービスの永続エンティティを定義する。
//
// 各エンティティはカラム名によるフィールド参照能力（FieldRef）を持ち、
// リフレクションなしで汎用リポジトリから読み書きできる。
package model

import "time"

// Entity は汎用リポジトリが扱える永続エンティティの能力集合。
type Entity interface {
	// TableName はエンティティが永続化されるテーブル名を返す。
	TableName() string
	// Columns は主キーを先頭とした全カラム名を定義順で返す。
	Columns() []string
	// FieldRef はカラム名に対応するフィールドへの型付きポインタを返す。
	// 未知のカラム名の場合は第2戻り値がfalseになる。
	FieldRef(column string) (any, bool)
	// PrimaryKey は主キーの値を返す。
	PrimaryKey() int64
}

// Audit は全エンティティが持つ監査フィールド。
// 書き込み経路でのみ設定され、クライアントからは指定できない。
type Audit struct {
	// CreatedBy は作成者のユーザーID。0は未設定を表す。
	CreatedBy int64 `json:"-"`
	// UpdatedBy は最終更新者のユーザーID。0は未設定を表す。
	UpdatedBy int64 `json:"-"`
	// DeletedBy は削除者のユーザーID。0は未設定を表す。
	DeletedBy int64 `json:"-"`
	// CreatedAt は作成日時。
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt は最終更新日時。
	UpdatedAt time.Time `json:"updated_at"`
}

// auditColumns は監査フィールドのカラム名。全テーブルで共通。
var auditColumns = []string{"created_by", "updated_by", "deleted_by", "created_at", "updated_at"}

// auditFieldRef は監査フィールドのカラム名解決を行う。
func (a *Audit) auditFieldRef(column string) (any, bool) {
	switch column {
	case "created_by":
		return &a.CreatedBy, true
	case "updated_by":
		return &a.UpdatedBy, true
	case "deleted_by":
		return &a.DeletedBy, true
	case "created_at":
		return &a.CreatedAt, true
	case "updated_at":
		return &a.UpdatedAt, true
	default:
		return nil, false
	}
}
