package controller

import (
	"context"

	"github.com/nao1215/shophub/internal/user/db"
	"github.com/nao1215/shophub/internal/user/model"
	"github.com/nao1215/shophub/internal/user/repository"
	"github.com/nao1215/shophub/pkg/apperr"
	"github.com/nao1215/shophub/pkg/password"
	"github.com/nao1215/shophub/pkg/token"
)

// AuthController はユーザー登録・ログイン・トークン再発行を担当する。
type AuthController struct {
	*Controller[*model.User]

	// users はユーザーリポジトリ。
	users *repository.UserRepository
	// codec は認証トークンのコーデック。
	codec *token.Codec
}

// NewAuthController はAuthControllerを生成する。
func NewAuthController(users *repository.UserRepository, codec *token.Codec) *AuthController {
	return &AuthController{
		Controller: NewController(users.Repository),
		users:      users,
		codec:      codec,
	}
}

// Register は新しいユーザーを登録する。
// メールアドレスまたはユーザー名が既に使われている場合はDuplicateValueを返す。
// パスワードはハッシュ化して保存し、平文は保持しない。
func (c *AuthController) Register(ctx context.Context, email, username, plainPassword string) (*model.User, error) {
	if _, found, err := c.users.GetByEmail(ctx, email); err != nil {
		return nil, translate(err, "ユーザーの検索に失敗しました")
	} else if found {
		return nil, apperr.DuplicateValue("このメールアドレスは既に登録されています")
	}

	if _, found, err := c.users.GetByUsername(ctx, username); err != nil {
		return nil, translate(err, "ユーザーの検索に失敗しました")
	} else if found {
		return nil, apperr.DuplicateValue("このユーザー名は既に使われています")
	}

	digest, err := password.Hash(plainPassword)
	if err != nil {
		return nil, apperr.BadRequest("パスワードの処理に失敗しました", err)
	}

	return db.WithTransaction(ctx, c.sess, db.PropagationRequired, func(ctx context.Context) (*model.User, error) {
		created, err := c.users.Create(ctx, map[string]any{
			"email":    email,
			"username": username,
			"password": digest,
		})
		if err != nil {
			return nil, translate(err, "ユーザーの作成に失敗しました")
		}

		// 自己登録のため、監査フィールドには採番後の自身のIDを記録する
		created, err = c.users.Update(ctx, created, map[string]any{
			"created_by": created.ID,
			"updated_by": created.ID,
		})
		if err != nil {
			return nil, translate(err, "ユーザーの作成に失敗しました")
		}
		return created, nil
	})
}

// Login は認証情報を検証して署名付きトークンを発行する。
// メールアドレス不明・パスワード不一致・無効化済みのいずれも
// 呼び出し側から区別できない同一のUnauthorizedを返す。
func (c *AuthController) Login(ctx context.Context, email, plainPassword string) (string, error) {
	user, found, err := c.users.GetByEmail(ctx, email)
	if err != nil {
		return "", translate(err, "ユーザーの検索に失敗しました")
	}
	if !found || !password.Verify(user.Password, plainPassword) || !user.IsActive {
		return "", apperr.Unauthorized("メールアドレスまたはパスワードが正しくありません")
	}

	signed, err := c.codec.Issue(user.ID)
	if err != nil {
		return "", apperr.BadRequest("トークンの発行に失敗しました", err)
	}
	return signed, nil
}

// Refresh は期限切れの可能性があるトークンから新しいトークンを発行する。
// 署名が正しくない場合、またはsubjectのユーザーが既に存在しない場合は
// Unauthorizedを返す。失効済みトークンの管理は行わない。
func (c *AuthController) Refresh(ctx context.Context, tokenString string) (string, error) {
	userID, err := c.codec.DecodeIgnoringExpiry(tokenString)
	if err != nil {
		return "", apperr.Unauthorized("トークンが無効です")
	}

	user, found, err := c.users.GetBy(ctx, "id", userID)
	if err != nil {
		return "", translate(err, "ユーザーの検索に失敗しました")
	}
	if !found || !user.IsActive {
		return "", apperr.Unauthorized("トークンが無効です")
	}

	signed, err := c.codec.Issue(user.ID)
	if err != nil {
		return "", apperr.BadRequest("トークンの発行に失敗しました", err)
	}
	return signed, nil
}
