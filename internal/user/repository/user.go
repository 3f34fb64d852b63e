package repository

import (
	"context"

	"github.com/nao1215/shophub/internal/user/db"
	"github.com/nao1215/shophub/internal/user/model"
)

// UserRepository はUserエンティティ用のリポジトリ。
// 汎用リポジトリにユーザー固有の検索を加える。
type UserRepository struct {
	*Repository[*model.User]
}

// NewUserRepository はUserRepositoryを生成する。
func NewUserRepository(sess *db.Session) *UserRepository {
	return &UserRepository{Repository: New(sess, model.NewUser)}
}

// GetByUsername はユーザー名で検索する。該当なしの場合は第2戻り値がfalse。
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, bool, error) {
	return r.GetBy(ctx, "username", username)
}

// GetByEmail はメールアドレスで検索する。該当なしの場合は第2戻り値がfalse。
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, bool, error) {
	return r.GetBy(ctx, "email", email)
}
