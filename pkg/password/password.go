// Package password はログイン用シークレットのハッシュ化と照合を提供する。
//
// bcryptを使用するため、同じ入力でも毎回異なるダイジェストが生成される。
// 等価比較ではなくVerifyによる照合のみが有効な検証手段となる。
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash は平文シークレットからソルト付きbcryptダイジェストを生成する。
func Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("パスワードハッシュの生成に失敗: %w", err)
	}
	return string(digest), nil
}

// Verify はダイジェストと平文シークレットを照合する。
// 不一致やダイジェスト不正の場合はエラーを返さずfalseを返す。
// bcryptの比較は入力内容に依存しない時間で行われる。
func Verify(digest, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
