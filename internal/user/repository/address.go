package repository

import (
	"context"

	"github.com/nao1215/shophub/internal/user/db"
	"github.com/nao1215/shophub/internal/user/model"
)

// AddressRepository はAddressエンティティ用のリポジトリ。
type AddressRepository struct {
	*Repository[*model.Address]
}

// NewAddressRepository はAddressRepositoryを生成する。
func NewAddressRepository(sess *db.Session) *AddressRepository {
	return &AddressRepository{Repository: New(sess, model.NewAddress)}
}

// GetAllByUserID は所有者のユーザーIDで住所一覧をページング取得する。
func (r *AddressRepository) GetAllByUserID(ctx context.Context, userID int64, skip, limit int) ([]*model.Address, error) {
	return r.GetAll(ctx, skip, limit, map[string]any{"user_id": userID})
}
