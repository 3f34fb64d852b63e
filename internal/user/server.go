package user

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/shophub/internal/user/controller"
	userdb "github.com/nao1215/shophub/internal/user/db"
	"github.com/nao1215/shophub/internal/user/model"
	"github.com/nao1215/shophub/internal/user/repository"
	"github.com/nao1215/shophub/pkg/apperr"
	"github.com/nao1215/shophub/pkg/middleware"
	"github.com/nao1215/shophub/pkg/token"
)

// Ginコンテキストのキー。resolveIdentityが設定し、保護ハンドラが参照する。
const (
	// contextKeyCurrentUser は認証済みユーザー（*model.User）。
	contextKeyCurrentUser = "current_user"
	// contextKeySession はリクエスト専属のデータベースセッション（*userdb.Session）。
	contextKeySession = "db_session"
)

// Server はユーザー管理サービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// db はSQLiteデータベース接続。
	db *sql.DB
	// codec は認証トークンのコーデック。
	codec *token.Codec
}

// NewServer は新しいユーザーサーバーを生成する。
// データベース接続・マイグレーション適用・トークンコーデック初期化を行う。
func NewServer(port string) (*Server, error) {
	sqlDB, err := userdb.Open(getEnvOr("USER_DB_PATH", "/data/user.db"))
	if err != nil {
		return nil, fmt.Errorf("データベース初期化に失敗: %w", err)
	}

	expireMinutes, _ := strconv.Atoi(os.Getenv("JWT_EXPIRE_MINUTES"))
	codec, err := token.NewCodec(token.Config{
		Secret:        getEnvOr("JWT_SECRET", "dev-secret-key"),
		Algorithm:     getEnvOr("JWT_ALGORITHM", "HS256"),
		ExpireMinutes: expireMinutes,
	})
	if err != nil {
		return nil, fmt.Errorf("トークンコーデック初期化に失敗: %w", err)
	}

	return newServer(port, sqlDB, codec), nil
}

// newServer は依存を注入してサーバーを組み立てる。
func newServer(port string, sqlDB *sql.DB, codec *token.Codec) *Server {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router: router,
		port:   port,
		db:     sqlDB,
		codec:  codec,
	}
	s.setupRoutes()
	return s
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
// /v1/auth配下は未認証で到達でき、それ以外の/v1配下は
// トークン検証と本人解決を通過した後にのみ実行される。
func (s *Server) setupRoutes() {
	v1 := s.router.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			// ユーザー登録
			auth.POST("", s.handleRegister())
			// ログイン（トークン発行）
			auth.POST("/login", s.handleLogin())
			// トークン再発行
			auth.POST("/refresh", s.handleRefresh())
		}

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(s.codec))
		protected.Use(s.resolveIdentity())
		{
			profile := protected.Group("/profile")
			{
				// 自分のプロフィール取得
				profile.GET("", s.handleGetProfile())
				// プロフィール全体更新
				profile.PUT("", s.handleUpdateProfile())
				// プロフィール部分更新
				profile.PATCH("", s.handlePatchProfile())
			}

			users := protected.Group("/users")
			users.Use(s.requireAdmin())
			{
				// ユーザー一覧取得（管理者のみ）
				users.GET("", s.handleListUsers())
				// ユーザー詳細取得（管理者のみ）
				users.GET("/:uuid", s.handleGetUser())
				// ユーザー削除（管理者のみ）
				users.DELETE("/:uuid", s.handleDeleteUser())
			}

			address := protected.Group("/address")
			{
				// 自分の住所一覧取得
				address.GET("", s.handleListAddresses())
				// 住所作成
				address.POST("", s.handleCreateAddress())
				// 住所詳細取得
				address.GET("/:uuid", s.handleGetAddress())
				// 住所全体更新
				address.PUT("/:uuid", s.handleUpdateAddress())
				// 住所部分更新
				address.PATCH("/:uuid", s.handlePatchAddress())
				// 住所削除
				address.DELETE("/:uuid", s.handleDeleteAddress())
			}
		}
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "user"})
	})
}

// resolveIdentity はトークンのsubjectから現在のユーザーを解決するミドルウェアを返す。
// リクエスト専属のセッションを生成し、ユーザーが削除済みまたは無効化済みの場合は
// 署名が正しいトークンでも401で遮断する。
func (s *Server) resolveIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := userdb.NewSession(s.db)
		users := repository.NewUserRepository(sess)

		current, found, err := users.GetBy(c.Request.Context(), "id", middleware.GetUserID(c))
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		if !found || !current.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error_code": apperr.KindUnauthorized.Code(),
				"message":    "トークンに対応するユーザーが存在しません",
			})
			return
		}

		c.Set(contextKeySession, sess)
		c.Set(contextKeyCurrentUser, current)
		c.Next()
	}
}

// requireAdmin は管理者以外を403で遮断するミドルウェアを返す。
// resolveIdentityの後に適用されている必要がある。
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentUser(c).IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error_code": apperr.KindForbidden.Code(),
				"message":    "この操作には管理者権限が必要です",
			})
			return
		}
		c.Next()
	}
}

// currentUser はresolveIdentityが設定した認証済みユーザーを取得する。
func currentUser(c *gin.Context) *model.User {
	value, _ := c.Get(contextKeyCurrentUser)
	current, _ := value.(*model.User)
	return current
}

// session はresolveIdentityが設定したリクエスト専属セッションを取得する。
func session(c *gin.Context) *userdb.Session {
	value, _ := c.Get(contextKeySession)
	sess, _ := value.(*userdb.Session)
	return sess
}

// userController は保護ハンドラ用のUserControllerを組み立てる。
func userController(c *gin.Context) *controller.UserController {
	return controller.NewUserController(repository.NewUserRepository(session(c)))
}

// addressController は保護ハンドラ用のAddressControllerを組み立てる。
func addressController(c *gin.Context) *controller.AddressController {
	return controller.NewAddressController(repository.NewAddressRepository(session(c)))
}

// authController は未認証ルート用のAuthControllerを組み立てる。
// 未認証ルートはresolveIdentityを通らないため、セッションをここで生成する。
func (s *Server) authController() *controller.AuthController {
	sess := userdb.NewSession(s.db)
	return controller.NewAuthController(repository.NewUserRepository(sess), s.codec)
}

// registerRequest はユーザー登録リクエストのJSON構造。
type registerRequest struct {
	// Email はログイン用メールアドレス。
	Email string `json:"email" binding:"required,email"`
	// Username は表示用ユーザー名。
	Username string `json:"username" binding:"required,min=3"`
	// Password は平文パスワード。保存前にハッシュ化される。
	Password string `json:"password" binding:"required,min=8"`
}

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	// Email はログイン用メールアドレス。
	Email string `json:"email" binding:"required,email"`
	// Password は平文パスワード。
	Password string `json:"password" binding:"required"`
}

// refreshRequest はトークン再発行リクエストのJSON構造。
type refreshRequest struct {
	// AccessToken は期限切れの可能性がある発行済みトークン。
	AccessToken string `json:"access_token" binding:"required"`
}

// updateProfileRequest はプロフィール全体更新リクエストのJSON構造。
// 省略されたフィールドはゼロ値で上書きされる。
type updateProfileRequest struct {
	// Username は表示用ユーザー名。
	Username string `json:"username" binding:"required,min=3"`
	// ProfileImageURL はプロフィール画像のURL。
	ProfileImageURL string `json:"profile_image_url"`
	// PhoneNumber は電話番号。
	PhoneNumber string `json:"phone_number"`
}

// patchProfileRequest はプロフィール部分更新リクエストのJSON構造。
// nilのフィールドは変更されない。
type patchProfileRequest struct {
	// Username は表示用ユーザー名。
	Username *string `json:"username"`
	// ProfileImageURL はプロフィール画像のURL。
	ProfileImageURL *string `json:"profile_image_url"`
	// PhoneNumber は電話番号。
	PhoneNumber *string `json:"phone_number"`
}

// createAddressRequest は住所作成リクエストのJSON構造。
type createAddressRequest struct {
	// StreetAddress は番地・通り名。
	StreetAddress string `json:"street_address" binding:"required"`
	// Apartment は部屋番号など。
	Apartment string `json:"apartment"`
	// City は市区町村。
	City string `json:"city" binding:"required"`
	// State は州・県。
	State string `json:"state"`
	// Country は国名。
	Country string `json:"country" binding:"required"`
	// PostalCode は郵便番号。
	PostalCode string `json:"postal_code"`
	// AddressType は住所種別（shipping / billing）。省略時はshipping。
	AddressType string `json:"address_type"`
}

// patchAddressRequest は住所部分更新リクエストのJSON構造。
// nilのフィールドは変更されない。
type patchAddressRequest struct {
	// StreetAddress は番地・通り名。
	StreetAddress *string `json:"street_address"`
	// Apartment は部屋番号など。
	Apartment *string `json:"apartment"`
	// City は市区町村。
	City *string `json:"city"`
	// State は州・県。
	State *string `json:"state"`
	// Country は国名。
	Country *string `json:"country"`
	// PostalCode は郵便番号。
	PostalCode *string `json:"postal_code"`
	// AddressType は住所種別（shipping / billing）。
	AddressType *string `json:"address_type"`
}

// registeredResponse はユーザー登録レスポンスのJSON構造。
type registeredResponse struct {
	// UUID は外部公開用の一意識別子。
	UUID string `json:"uuid"`
	// Email は登録されたメールアドレス。
	Email string `json:"email"`
	// Username は登録されたユーザー名。
	Username string `json:"username"`
}

// tokenResponse はトークン発行レスポンスのJSON構造。
type tokenResponse struct {
	// AccessToken は署名付きトークン。
	AccessToken string `json:"access_token"`
	// TokenType はトークンの種別。常に"bearer"。
	TokenType string `json:"token_type"`
	// ExpiresIn はトークンの有効期間（秒）。
	ExpiresIn int `json:"expires_in"`
}

// userResponse はユーザーのJSONレスポンス構造。
type userResponse struct {
	// UUID は外部公開用の一意識別子。
	UUID string `json:"uuid"`
	// Email はメールアドレス。
	Email string `json:"email"`
	// Username はユーザー名。
	Username string `json:"username"`
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
	// CreatedAt は作成日時。
	CreatedAt string `json:"created_at"`
	// UpdatedAt は最終更新日時。
	UpdatedAt string `json:"updated_at"`
}

// addressResponse は住所のJSONレスポンス構造。
type addressResponse struct {
	// UUID は外部公開用の一意識別子。
	UUID string `json:"uuid"`
	// StreetAddress は番地・通り名。
	StreetAddress string `json:"street_address"`
	// Apartment は部屋番号など。
	Apartment string `json:"apartment"`
	// City は市区町村。
	City string `json:"city"`
	// State は州・県。
	State string `json:"state"`
	// Country は国名。
	Country string `json:"country"`
	// PostalCode は郵便番号。
	PostalCode string `json:"postal_code"`
	// AddressType は住所種別。
	AddressType string `json:"address_type"`
	// CreatedAt は作成日時。
	CreatedAt string `json:"created_at"`
	// UpdatedAt は最終更新日時。
	UpdatedAt string `json:"updated_at"`
}

// toUserResponse はUserエンティティをJSONレスポンスに変換する。
func toUserResponse(u *model.User) userResponse {
	return userResponse{
		UUID:            u.UUID,
		Email:           u.Email,
		Username:        u.Username,
		IsAdmin:         u.IsAdmin,
		IsActive:        u.IsActive,
		EmailVerified:   u.EmailVerified,
		ProfileImageURL: u.ProfileImageURL,
		PhoneNumber:     u.PhoneNumber,
		CreatedAt:       u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// toAddressResponse はAddressエンティティをJSONレスポンスに変換する。
func toAddressResponse(a *model.Address) addressResponse {
	return addressResponse{
		UUID:          a.UUID,
		StreetAddress: a.StreetAddress,
		Apartment:     a.Apartment,
		City:          a.City,
		State:         a.State,
		Country:       a.Country,
		PostalCode:    a.PostalCode,
		AddressType:   a.AddressType,
		CreatedAt:     a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// handleRegister はユーザー登録を処理するハンドラを返す。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperr.Unprocessable(fmt.Sprintf("リクエストが不正です: %v", err)))
			return
		}

		created, err := s.authController().Register(c.Request.Context(), req.Email, req.Username, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, registeredResponse{
			UUID:     created.UUID,
			Email:    created.Email,
			Username: created.Username,
		})
	}
}

// handleLogin はログインを処理するハンドラを返す。
// 認証に成功した場合は署名付きトークンを返す。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperr.Unprocessable(fmt.Sprintf("リクエストが不正です: %v", err)))
			return
		}

		signed, err := s.authController().Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, s.toTokenResponse(signed))
	}
}

// handleRefresh はトークン再発行を処理するハンドラを返す。
// 期限切れのトークンでも署名とsubjectのユーザーが有効であれば受理する。
func (s *Server) handleRefresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperr.Unprocessable(fmt.Sprintf("リクエストが不正です: %v", err)))
			return
		}

		signed, err := s.authController().Refresh(c.Request.Context(), req.AccessToken)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, s.toTokenResponse(signed))
	}
}

// toTokenResponse は署名済みトークンをJSONレスポンスに変換する。
func (s *Server) toTokenResponse(signed string) tokenResponse {
	return tokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int(s.codec.Lifetime().Seconds()),
	}
}

// handleGetProfile は自分のプロフィール取得を処理するハンドラを返す。
func (s *Server) handleGetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, toUserResponse(currentUser(c)))
	}
}

// handleUpdateProfile はプロフィール全体更新を処理するハンドラを返す。
// リクエストに含まれない任意フィールドは空値で上書きされる。
func (s *Server) handleUpdateProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperr.Unprocessable(fmt.Sprintf("リクエストが不正です: %v", err)))
			return
		}

		current := currentUser(c)
		updated, err := userController(c).UpdateProfile(c.Request.Context(), current.ID, current.ID, map[string]any{
			"username":          req.Username,
			"profile_image_url": req.ProfileImageURL,
			"phone_number":      req.PhoneNumber,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, toUserResponse(updated))
	}
}

// handlePatchProfile はプロフィール部分更新を処理するハンドラを返す。
// リクエストに含まれないフィールドは変更されない。
func (s *Server) handlePatchProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req patchProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperr.Unprocessable(fmt.Sprintf("リクエストが不正です: %v", err)))
			return
		}

		fields := map[string]any{}
		if req.Username != nil {
			fields["username"] = *req.Username
		}
		if req.ProfileImageURL != nil {
			fields["profile_image_url"] = *req.ProfileImageURL
		}
		if req.PhoneNumber != nil {
			fields["phone_number"] = *req.PhoneNumber
		}
		if len(fields) == 0 {
			respondError(c, apperr.Unprocessable("更新するフィールドが指定されていません"))
			return
		}

		current := currentUser(c)
		updated, err := userController(c).UpdateProfile(c.Request.Context(), current.ID, current.ID, fields)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, toUserResponse(updated))
	}
}

// handleListUsers はユーザー一覧取得を処理するハンドラを返す。
func (s *Server) handleListUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		skip, limit, err := parsePagination(c)
		if err != nil {
			respondError(c, err)
			return
		}

		users, err := userController(c).GetAll(c.Request.Context(), skip, limit, nil)
		if err != nil {
			respondError(c, err)
			return
		}

		responses := make([]userResponse, 0, len(users))
		for _, u := range users {
			responses = append(responses, toUserResponse(u))
		}
		c.JSON(http.StatusOK, responses)
	}
}

// handleGetUser はユーザー詳細取得を処理するハンドラを返す。
func (s *Server) handleGetUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := userController(c).GetByUUID(c.Request.Context(), c.Param("uuid"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toUserResponse(u))
	}
}

// handleDeleteUser はユーザー削除を処理するハンドラを返す。
func (s *Server) handleDeleteUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := userController(c).DeleteByUUID(c.Request.Context(), c.Param("uuid")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "ユーザーを削除しました"})
	}
}

// handleListAddresses は自分の住所一覧取得を処理するハンドラを返す。
func (s *Server) handleListAddresses() gin.HandlerFunc {
	return func(c *gin.Context) {
		skip, limit, err := parsePagination(c)
		if err != nil {
			respondError(c, err)
			return
		}

		addresses, err := addressController(c).ListForOwner(c.Request.Context(), currentUser(c), skip, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		responses := make([]addressResponse, 0, len(addresses))
		for _, a := range addresses {
			responses = append(responses, toAddressResponse(a))
		}
		c.JSON(http.StatusOK, responses)
	}
}

// handleCreateAddress は住所作成を処理するハンドラを返す。
func (s *Server) handleCreateAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperr.Unprocessable(fmt.Sprintf("リクエストが不正です: %v", err)))
			return
		}
		if req.AddressType != "" && !model.ValidAddressType(req.AddressType) {
			respondError(c, apperr.Unprocessable("住所種別はshippingまたはbillingでなければなりません"))
			return
		}

		fields := map[string]any{
			"street_address": req.StreetAddress,
			"apartment":      req.Apartment,
			"city":           req.City,
			"state":          req.State,
			"country":        req.Country,
			"postal_code":    req.PostalCode,
		}
		if req.AddressType != "" {
			fields["address_type"] = req.AddressType
		}

		created, err := addressController(c).CreateForOwner(c.Request.Context(), currentUser(c), fields)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, toAddressResponse(created))
	}
}

// handleGetAddress は住所詳細取得を処理するハンドラを返す。
// 別のユーザーが所有する住所は403になる。
func (s *Server) handleGetAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := addressController(c).GetForOwner(c.Request.Context(), currentUser(c), c.Param("uuid"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toAddressResponse(a))
	}
}

// handleUpdateAddress は住所全体更新を処理するハンドラを返す。
// リクエストに含まれない任意フィールドは空値で上書きされる。
func (s *Server) handleUpdateAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperr.Unprocessable(fmt.Sprintf("リクエストが不正です: %v", err)))
			return
		}

		addressType := req.AddressType
		if addressType == "" {
			addressType = model.AddressTypeShipping
		}
		if !model.ValidAddressType(addressType) {
			respondError(c, apperr.Unprocessable("住所種別はshippingまたはbillingでなければなりません"))
			return
		}

		updated, err := addressController(c).UpdateForOwner(c.Request.Context(), currentUser(c), c.Param("uuid"), map[string]any{
			"street_address": req.StreetAddress,
			"apartment":      req.Apartment,
			"city":           req.City,
			"state":          req.State,
			"country":        req.Country,
			"postal_code":    req.PostalCode,
			"address_type":   addressType,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, toAddressResponse(updated))
	}
}

// handlePatchAddress は住所部分更新を処理するハンドラを返す。
// リクエストに含まれないフィールドは変更されない。
func (s *Server) handlePatchAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req patchAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperr.Unprocessable(fmt.Sprintf("リクエストが不正です: %v", err)))
			return
		}
		if req.AddressType != nil && !model.ValidAddressType(*req.AddressType) {
			respondError(c, apperr.Unprocessable("住所種別はshippingまたはbillingでなければなりません"))
			return
		}

		fields := map[string]any{}
		if req.StreetAddress != nil {
			fields["street_address"] = *req.StreetAddress
		}
		if req.Apartment != nil {
			fields["apartment"] = *req.Apartment
		}
		if req.City != nil {
			fields["city"] = *req.City
		}
		if req.State != nil {
			fields["state"] = *req.State
		}
		if req.Country != nil {
			fields["country"] = *req.Country
		}
		if req.PostalCode != nil {
			fields["postal_code"] = *req.PostalCode
		}
		if req.AddressType != nil {
			fields["address_type"] = *req.AddressType
		}
		if len(fields) == 0 {
			respondError(c, apperr.Unprocessable("更新するフィールドが指定されていません"))
			return
		}

		updated, err := addressController(c).UpdateForOwner(c.Request.Context(), currentUser(c), c.Param("uuid"), fields)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, toAddressResponse(updated))
	}
}

// handleDeleteAddress は住所削除を処理するハンドラを返す。
func (s *Server) handleDeleteAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := addressController(c).DeleteForOwner(c.Request.Context(), currentUser(c), c.Param("uuid")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "住所を削除しました"})
	}
}

// parsePagination はクエリ文字列からページング条件を取り出す。
// skipのデフォルトは0、limitのデフォルトは20。数値でない場合や負数はエラー。
func parsePagination(c *gin.Context) (int, int, error) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		return 0, 0, apperr.BadRequest("skipは非負の整数でなければなりません", err)
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		return 0, 0, apperr.BadRequest("limitは非負の整数でなければなりません", err)
	}
	return skip, limit, nil
}

// respondError はドメインエラーをHTTPレスポンスに変換する。
// 種別を持たないエラーは詳細を漏らさず500に丸め、ログにのみ記録する。
func respondError(c *gin.Context, err error) {
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		c.JSON(domainErr.Kind.HTTPStatus(), gin.H{
			"error_code": domainErr.Kind.Code(),
			"message":    domainErr.Message,
		})
		return
	}

	log.Printf("予期しないエラー: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error_code": "internal_error",
		"message":    "サーバー内部でエラーが発生しました",
	})
}

// getEnvOr は環境変数の値を返す。未設定の場合はfallbackを返す。
func getEnvOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
