package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/shophub/pkg/apperr"
	"github.com/nao1215/shophub/pkg/token"
)

// contextKeyUserID はGinコンテキストに認証済みユーザーIDを格納するキー。
const contextKeyUserID = "auth_user_id"

// JWTAuth はBearerトークンを検証するGinミドルウェアを返す。
// ヘッダーの欠如・形式不正・署名不正・期限切れはいずれも401で遮断され、
// 後続のハンドラは実行されない。検証に成功した場合はコンテキストに
// subjectのユーザーIDを設定する。
func JWTAuth(codec *token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorizationヘッダーが必要です")
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			abortUnauthorized(c, "Bearer トークン形式が不正です")
			return
		}

		userID, err := codec.Decode(tokenString)
		if err != nil {
			if errors.Is(err, token.ErrTokenExpired) {
				abortUnauthorized(c, "トークンの有効期限が切れています")
				return
			}
			abortUnauthorized(c, "トークンが無効です")
			return
		}

		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID はGinコンテキストから認証済みユーザーIDを取得する。
// JWTAuthミドルウェアが事前に適用されている必要がある。未設定の場合は0を返す。
func GetUserID(c *gin.Context) int64 {
	value, _ := c.Get(contextKeyUserID)
	if id, ok := value.(int64); ok {
		return id
	}
	return 0
}

// abortUnauthorized は401レスポンスを書き込んで処理を打ち切る。
func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error_code": apperr.KindUnauthorized.Code(),
		"message":    message,
	})
}
