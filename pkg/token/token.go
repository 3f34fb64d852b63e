// Package token は署名付き認証トークンの発行と検証を提供する。
//
// 有効期限は署名済みペイロード内のクレームとして埋め込むため、
// 失効リストなしで期限切れを判定できる。逆に言えば、自然失効前の
// トークンを無効化する手段は持たない。
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired は署名は正しいが有効期限が過ぎているトークンを示す。
var ErrTokenExpired = errors.New("トークンの有効期限が切れています")

// ErrTokenInvalid は署名不一致または構造不正のトークンを示す。
var ErrTokenInvalid = errors.New("トークンが無効です")

// defaultExpireMinutes はトークン有効期間のデフォルト値（24時間）。
const defaultExpireMinutes = 60 * 24

// Config はトークンコーデックの設定。
// プロセス起動時に一度だけ構築し、以降は読み取り専用として扱う。
type Config struct {
	// Secret はHMAC署名用の共有秘密鍵。
	Secret string
	// Algorithm は署名アルゴリズム名（HS256 / HS384 / HS512）。
	Algorithm string
	// ExpireMinutes はトークンの有効期間（分）。0の場合は1440分。
	ExpireMinutes int
}

// Codec は署名付きトークンの発行・検証を行う。
// 構築後は不変であり、複数のリクエストから同期なしで共有できる。
type Codec struct {
	// secret は署名用秘密鍵。
	secret []byte
	// method は署名アルゴリズム。
	method jwt.SigningMethod
	// lifetime は発行時点からの有効期間。
	lifetime time.Duration
}

// NewCodec は設定からトークンコーデックを生成する。
// HMAC系以外のアルゴリズムが指定された場合はエラーを返す。
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("署名用秘密鍵が設定されていません")
	}

	alg := cfg.Algorithm
	if alg == "" {
		alg = "HS256"
	}
	method := jwt.GetSigningMethod(alg)
	if method == nil {
		return nil, fmt.Errorf("未知の署名アルゴリズム: %s", alg)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("共有秘密鍵で使用できない署名アルゴリズム: %s", alg)
	}

	minutes := cfg.ExpireMinutes
	if minutes <= 0 {
		minutes = defaultExpireMinutes
	}

	return &Codec{
		secret:   []byte(cfg.Secret),
		method:   method,
		lifetime: time.Duration(minutes) * time.Minute,
	}, nil
}

// Lifetime は発行されるトークンの有効期間を返す。
func (c *Codec) Lifetime() time.Duration {
	return c.lifetime
}

// Issue はユーザーIDをsubjectクレームに持つ署名付きトークンを発行する。
// 有効期限は発行時刻に設定された有効期間を加えた時刻となる。
func (c *Codec) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("トークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// Decode はトークンの署名と有効期限を検証し、subjectのユーザーIDを返す。
// 期限切れのみの場合はErrTokenExpired、それ以外の検証失敗はErrTokenInvalidを返す。
func (c *Codec) Decode(tokenString string) (int64, error) {
	return c.decode(tokenString)
}

// DecodeIgnoringExpiry は有効期限の検証を省略してsubjectのユーザーIDを返す。
// 署名検証は省略しないため、別の秘密鍵で署名されたトークンは受理しない。
// 期限切れトークンのクレームを参照するリフレッシュ系フロー専用。
func (c *Codec) DecodeIgnoringExpiry(tokenString string) (int64, error) {
	return c.decode(tokenString, jwt.WithoutClaimsValidation())
}

// decode はトークン検証の共通処理。
func (c *Codec) decode(tokenString string, opts ...jwt.ParserOption) (int64, error) {
	opts = append(opts, jwt.WithValidMethods([]string{c.method.Alg()}))

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}
	if !parsed.Valid {
		return 0, ErrTokenInvalid
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return userID, nil
}
