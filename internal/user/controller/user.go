package controller

import (
	"context"

	"github.com/nao1215/shophub/internal/user/model"
	"github.com/nao1215/shophub/internal/user/repository"
	"github.com/nao1215/shophub/pkg/apperr"
)

// UserController はユーザーエンティティのドメイン操作を担当する。
type UserController struct {
	*Controller[*model.User]

	// users はユーザーリポジトリ。
	users *repository.UserRepository
}

// NewUserController はUserControllerを生成する。
func NewUserController(users *repository.UserRepository) *UserController {
	return &UserController{
		Controller: NewController(users.Repository),
		users:      users,
	}
}

// GetByUsername はユーザー名でユーザーを取得する。存在しない場合はNotFound。
func (c *UserController) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, found, err := c.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, translate(err, "ユーザーの検索に失敗しました")
	}
	if !found {
		return nil, apperr.NotFound("ユーザーが見つかりません")
	}
	return user, nil
}

// GetByEmail はメールアドレスでユーザーを取得する。存在しない場合はNotFound。
func (c *UserController) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, found, err := c.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, translate(err, "ユーザーの検索に失敗しました")
	}
	if !found {
		return nil, apperr.NotFound("ユーザーが見つかりません")
	}
	return user, nil
}

// UpdateProfile は対象ユーザーへ部分更新を適用する。
// fieldsに含まれないフィールドは変更されない。更新者はactorIDとして記録される。
// 対象が存在しない場合はNotFoundを返し、何も変更しない。
func (c *UserController) UpdateProfile(ctx context.Context, actorID, userID int64, fields map[string]any) (*model.User, error) {
	user, err := c.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields["updated_by"] = actorID
	return c.Update(ctx, user, fields)
}

// DeleteByUUID は外部識別子で指定されたユーザーを削除する。
// 管理者による明示的な操作のためにのみ呼び出される。
func (c *UserController) DeleteByUUID(ctx context.Context, uuid string) error {
	user, err := c.GetByUUID(ctx, uuid)
	if err != nil {
		return err
	}
	return c.Delete(ctx, user)
}
