package apperr

import (
	"errors"
	"net/http"
	"testing"
)

// TestErrorWrap はドメインエラーの生成と元エラーの保持を検証する。
func TestErrorWrap(t *testing.T) {
	t.Parallel()

	t.Run("元エラーをerrors.Isで辿れること", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("unique constraint failed")
		err := BadRequest("更新に失敗しました", cause)

		if !errors.Is(err, cause) {
			t.Error("ラップした元エラーを辿れない")
		}
		if err.Kind != KindBadRequest {
			t.Errorf("Kind = %v, want %v", err.Kind, KindBadRequest)
		}
	})

	t.Run("メッセージに元エラーが含まれること", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("root cause")
		err := Wrap(KindBadRequest, "message", cause)
		if got := err.Error(); got != "message: root cause" {
			t.Errorf("Error() = %q", got)
		}
	})

	t.Run("元エラーなしのメッセージがそのまま返ること", func(t *testing.T) {
		t.Parallel()

		if got := NotFound("ユーザーが見つかりません").Error(); got != "ユーザーが見つかりません" {
			t.Errorf("Error() = %q", got)
		}
	})
}

// TestKindMapping は種別とHTTPステータス・エラーコードの対応を検証する。
func TestKindMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		kind   Kind
		status int
		code   string
	}{
		{"BadRequestは400", KindBadRequest, http.StatusBadRequest, "bad_request"},
		{"Unauthorizedは401", KindUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"Forbiddenは403", KindForbidden, http.StatusForbidden, "forbidden"},
		{"NotFoundは404", KindNotFound, http.StatusNotFound, "not_found"},
		{"Unprocessableは422", KindUnprocessable, http.StatusUnprocessableEntity, "unprocessable"},
		{"DuplicateValueは422", KindDuplicateValue, http.StatusUnprocessableEntity, "duplicate_value"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.kind.HTTPStatus(); got != tt.status {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.status)
			}
			if got := tt.kind.Code(); got != tt.code {
				t.Errorf("Code() = %q, want %q", got, tt.code)
			}
		})
	}
}
