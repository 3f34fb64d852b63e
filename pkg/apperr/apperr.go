// Package apperr はドメインエラーの分類と、HTTPステータス・エラーコードへの
// 変換規則を提供する。
//
// 各操作はパニックや生のストアエラーではなく、種別付きのエラー値を返す。
// 境界層（HTTPハンドラ）だけがこの種別をステータスコードに変換する。
package apperr

import (
	"fmt"
	"net/http"
)

// Kind はドメインエラーの種別。
type Kind int

const (
	// KindBadRequest は入力不正、または永続化層の失敗をラップしたエラー。
	KindBadRequest Kind = iota
	// KindUnauthorized は認証情報の欠如・無効・期限切れ。
	KindUnauthorized
	// KindForbidden は認証済みだが権限がない操作（所有者不一致など）。
	KindForbidden
	// KindNotFound は対象エンティティの不存在。
	KindNotFound
	// KindUnprocessable は検証に失敗した入力。
	KindUnprocessable
	// KindDuplicateValue は一意制約に抵触する値の重複。
	KindDuplicateValue
)

// Error は種別と利用者向けメッセージを持つドメインエラー。
// causeには診断用の元エラーを保持し、利用者には公開しない。
type Error struct {
	// Kind はエラー種別。
	Kind Kind
	// Message は利用者向けメッセージ。
	Message string
	// cause は診断用の元エラー。
	cause error
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap は元エラーを返す。
func (e *Error) Unwrap() error {
	return e.cause
}

// New は種別とメッセージからドメインエラーを生成する。
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap は元エラーを保持したままドメインエラーを生成する。
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// BadRequest は入力不正エラーを生成する。
func BadRequest(message string, cause error) *Error {
	return Wrap(KindBadRequest, message, cause)
}

// Unauthorized は認証エラーを生成する。
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// Forbidden は権限エラーを生成する。
func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// NotFound は不存在エラーを生成する。
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Unprocessable は検証エラーを生成する。
func Unprocessable(message string) *Error {
	return New(KindUnprocessable, message)
}

// DuplicateValue は一意制約違反エラーを生成する。
func DuplicateValue(message string) *Error {
	return New(KindDuplicateValue, message)
}

// HTTPStatus はエラー種別に対応するHTTPステータスコードを返す。
func (k Kind) HTTPStatus() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUnprocessable, KindDuplicateValue:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Code はエラー種別に対応する安定したエラーコード文字列を返す。
func (k Kind) Code() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindUnprocessable:
		return "unprocessable"
	case KindDuplicateValue:
		return "duplicate_value"
	default:
		return "internal_error"
	}
}
