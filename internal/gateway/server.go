package gateway

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/shophub/pkg/httpclient"
	"github.com/nao1215/shophub/pkg/middleware"
)

// Server はAPI GatewayサービスのHTTPサーバー。
// 自身では認証もビジネスロジックも持たず、ルーティングテーブルに従って
// リクエストをバックエンドサービスへそのまま転送する。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// client はバックエンドサービスへの転送クライアント。
	client *httpclient.Client
	// routes はサービス名→サブサービス名→バックエンドURLのルーティングテーブル。
	routes map[string]map[string]string
}

// NewServer は新しいGatewayサーバーを生成する。
func NewServer(port string) (*Server, error) {
	userServiceURL := getEnvOr("USER_SERVICE_URL", "http://localhost:8001")
	frontendURL := getEnvOr("FRONTEND_URL", "http://localhost:3000")

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS([]string{frontendURL}))

	s := &Server{
		router: router,
		port:   port,
		client: httpclient.New(),
		routes: map[string]map[string]string{
			"user": {
				"auth":    userServiceURL,
				"profile": userServiceURL,
				"users":   userServiceURL,
				"address": userServiceURL,
			},
		},
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
// /{service}/{sub_service}以下の全メソッド・全パスを転送対象とする。
func (s *Server) setupRoutes() {
	// 疎通確認用のウェルカムメッセージ
	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ShopHub API Gateway"})
	})

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
	})

	s.router.Any("/:service/:sub_service", s.handleProxy())
	s.router.Any("/:service/:sub_service/*path", s.handleProxy())
}

// handleProxy はバックエンドサービスへの転送を処理するハンドラを返す。
// ルーティングテーブルにないパスは404、バックエンドへ接続できない場合は503を返す。
// それ以外はバックエンドの応答（ステータス・ボディ・Content-Type）をそのまま返す。
func (s *Server) handleProxy() gin.HandlerFunc {
	return func(c *gin.Context) {
		service := c.Param("service")
		subService := c.Param("sub_service")

		base, ok := s.routes[service][subService]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error_code": "not_found",
				"message":    "ルーティング先が見つかりません",
			})
			return
		}

		target := base + "/v1/" + subService + strings.TrimSuffix(c.Param("path"), "/")
		if query := c.Request.URL.RawQuery; query != "" {
			target += "?" + query
		}

		resp, err := s.client.Forward(c.Request.Context(), c.Request.Method, target, c.Request.Header, c.Request.Body)
		if err != nil {
			log.Printf("バックエンドサービスへの転送に失敗: %s %s: %v", c.Request.Method, target, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error_code": "service_unavailable",
				"message":    "バックエンドサービスに接続できません",
			})
			return
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			log.Printf("バックエンドサービスの応答読み取りに失敗: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error_code": "service_unavailable",
				"message":    "バックエンドサービスの応答を読み取れません",
			})
			return
		}

		c.Data(resp.StatusCode, resp.Header.Get("Content-Type"), body)
	}
}

// getEnvOr は環境変数の値を返す。未設定の場合はfallbackを返す。
func getEnvOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
