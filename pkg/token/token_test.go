package token

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// testSecret はテスト用の署名秘密鍵。
const testSecret = "test-secret-key-for-unit-tests"

// newTestCodec はテスト用のコーデックを生成する。
func newTestCodec(t *testing.T) *Codec {
	t.Helper()

	codec, err := NewCodec(Config{Secret: testSecret})
	if err != nil {
		t.Fatalf("NewCodec()でエラーが発生: %v", err)
	}
	return codec
}

// signExpiredToken は有効期限切れのトークンを直接署名して生成する。
func signExpiredToken(t *testing.T, secret string, userID int64) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("期限切れトークンの署名に失敗: %v", err)
	}
	return signed
}

// TestNewCodec はコーデック構築時の設定検証を確認する。
func TestNewCodec(t *testing.T) {
	t.Parallel()

	t.Run("秘密鍵が空の場合はエラーになること", func(t *testing.T) {
		t.Parallel()

		if _, err := NewCodec(Config{Secret: ""}); err == nil {
			t.Error("空の秘密鍵でエラーが返らなかった")
		}
	})

	t.Run("未知のアルゴリズムはエラーになること", func(t *testing.T) {
		t.Parallel()

		if _, err := NewCodec(Config{Secret: testSecret, Algorithm: "NONE256"}); err == nil {
			t.Error("未知のアルゴリズムでエラーが返らなかった")
		}
	})

	t.Run("HMAC系以外のアルゴリズムはエラーになること", func(t *testing.T) {
		t.Parallel()

		if _, err := NewCodec(Config{Secret: testSecret, Algorithm: "RS256"}); err == nil {
			t.Error("RS256でエラーが返らなかった")
		}
	})

	t.Run("有効期間のデフォルトが24時間であること", func(t *testing.T) {
		t.Parallel()

		codec := newTestCodec(t)
		if codec.Lifetime() != 24*time.Hour {
			t.Errorf("Lifetime() = %v, want %v", codec.Lifetime(), 24*time.Hour)
		}
	})

	t.Run("有効期間を分単位で設定できること", func(t *testing.T) {
		t.Parallel()

		codec, err := NewCodec(Config{Secret: testSecret, ExpireMinutes: 30})
		if err != nil {
			t.Fatalf("NewCodec()でエラーが発生: %v", err)
		}
		if codec.Lifetime() != 30*time.Minute {
			t.Errorf("Lifetime() = %v, want %v", codec.Lifetime(), 30*time.Minute)
		}
	})
}

// TestIssueAndDecode は発行と検証の往復を確認する。
func TestIssueAndDecode(t *testing.T) {
	t.Parallel()

	t.Run("発行したトークンを検証してsubjectが一致すること", func(t *testing.T) {
		t.Parallel()

		codec := newTestCodec(t)
		signed, err := codec.Issue(42)
		if err != nil {
			t.Fatalf("Issue()でエラーが発生: %v", err)
		}

		userID, err := codec.Decode(signed)
		if err != nil {
			t.Fatalf("Decode()でエラーが発生: %v", err)
		}
		if userID != 42 {
			t.Errorf("userID = %d, want %d", userID, 42)
		}
	})

	t.Run("有効期限が発行時刻より厳密に後かつ有効期間以内であること", func(t *testing.T) {
		t.Parallel()

		codec := newTestCodec(t)
		before := time.Now()
		signed, err := codec.Issue(7)
		if err != nil {
			t.Fatalf("Issue()でエラーが発生: %v", err)
		}

		claims := &jwt.RegisteredClaims{}
		if _, err := jwt.ParseWithClaims(signed, claims, func(_ *jwt.Token) (any, error) {
			return []byte(testSecret), nil
		}); err != nil {
			t.Fatalf("トークンのパースに失敗: %v", err)
		}

		if !claims.ExpiresAt.Time.After(before) {
			t.Errorf("有効期限が発行時刻以前: %v", claims.ExpiresAt.Time)
		}
		max := before.Add(codec.Lifetime() + time.Minute)
		if claims.ExpiresAt.Time.After(max) {
			t.Errorf("有効期限が有効期間を超えている: %v > %v", claims.ExpiresAt.Time, max)
		}
	})

	t.Run("期限切れトークンはErrTokenExpiredになること", func(t *testing.T) {
		t.Parallel()

		codec := newTestCodec(t)
		expired := signExpiredToken(t, testSecret, 99)

		if _, err := codec.Decode(expired); !errors.Is(err, ErrTokenExpired) {
			t.Errorf("Decode()のエラー = %v, want ErrTokenExpired", err)
		}
	})

	t.Run("別の秘密鍵で署名されたトークンはErrTokenInvalidになること", func(t *testing.T) {
		t.Parallel()

		other, err := NewCodec(Config{Secret: "another-secret"})
		if err != nil {
			t.Fatalf("NewCodec()でエラーが発生: %v", err)
		}
		signed, err := other.Issue(42)
		if err != nil {
			t.Fatalf("Issue()でエラーが発生: %v", err)
		}

		codec := newTestCodec(t)
		if _, err := codec.Decode(signed); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Decode()のエラー = %v, want ErrTokenInvalid", err)
		}
	})

	t.Run("構造が不正なトークンはErrTokenInvalidになること", func(t *testing.T) {
		t.Parallel()

		codec := newTestCodec(t)
		if _, err := codec.Decode("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Decode()のエラー = %v, want ErrTokenInvalid", err)
		}
	})
}

// TestDecodeIgnoringExpiry は期限検証を省略した検証を確認する。
func TestDecodeIgnoringExpiry(t *testing.T) {
	t.Parallel()

	t.Run("期限切れトークンでもsubjectを取得できること", func(t *testing.T) {
		t.Parallel()

		codec := newTestCodec(t)
		expired := signExpiredToken(t, testSecret, 123)

		userID, err := codec.DecodeIgnoringExpiry(expired)
		if err != nil {
			t.Fatalf("DecodeIgnoringExpiry()でエラーが発生: %v", err)
		}
		if userID != 123 {
			t.Errorf("userID = %d, want %d", userID, 123)
		}
	})

	t.Run("署名が不正な場合はErrTokenInvalidになること", func(t *testing.T) {
		t.Parallel()

		codec := newTestCodec(t)
		expired := signExpiredToken(t, "wrong-secret", 123)

		if _, err := codec.DecodeIgnoringExpiry(expired); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("DecodeIgnoringExpiry()のエラー = %v, want ErrTokenInvalid", err)
		}
	})
}
