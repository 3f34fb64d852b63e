package controller

import (
	"context"

	"github.com/nao1215/shophub/internal/user/model"
	"github.com/nao1215/shophub/internal/user/repository"
	"github.com/nao1215/shophub/pkg/apperr"
)

// AddressController は住所エンティティのドメイン操作を担当する。
// 全ての変更系操作で所有者検査を行い、不一致の場合は一切の書き込みを行わない。
// 対象不在（NotFound）と所有者不一致（Forbidden）は区別して返す。
type AddressController struct {
	*Controller[*model.Address]

	// addresses は住所リポジトリ。
	addresses *repository.AddressRepository
}

// NewAddressController はAddressControllerを生成する。
func NewAddressController(addresses *repository.AddressRepository) *AddressController {
	return &AddressController{
		Controller: NewController(addresses.Repository),
		addresses:  addresses,
	}
}

// CreateForOwner は所有者に紐付いた住所を作成する。
// user_idと監査フィールドは呼び出し元の指定に関わらず所有者で上書きされる。
func (c *AddressController) CreateForOwner(ctx context.Context, owner *model.User, fields map[string]any) (*model.Address, error) {
	fields["user_id"] = owner.ID
	fields["created_by"] = owner.ID
	fields["updated_by"] = owner.ID
	return c.Create(ctx, fields)
}

// ListForOwner は所有者の住所一覧をページング取得する。
func (c *AddressController) ListForOwner(ctx context.Context, owner *model.User, skip, limit int) ([]*model.Address, error) {
	addresses, err := c.addresses.GetAllByUserID(ctx, owner.ID, skip, limit)
	if err != nil {
		return nil, translate(err, "住所一覧の取得に失敗しました")
	}
	return addresses, nil
}

// GetForOwner は外部識別子で住所を取得する。
// 住所が存在しない場合はNotFound、別のユーザーが所有する場合はForbidden。
func (c *AddressController) GetForOwner(ctx context.Context, owner *model.User, uuid string) (*model.Address, error) {
	address, err := c.GetByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if address.UserID != owner.ID {
		return nil, apperr.Forbidden("この住所へのアクセス権がありません")
	}
	return address, nil
}

// UpdateForOwner は所有者検査を通過した住所へ部分更新を適用する。
// 検査は書き込みの前に行われるため、不一致の場合に部分的な変更は残らない。
func (c *AddressController) UpdateForOwner(ctx context.Context, owner *model.User, uuid string, fields map[string]any) (*model.Address, error) {
	address, err := c.GetForOwner(ctx, owner, uuid)
	if err != nil {
		return nil, err
	}

	fields["updated_by"] = owner.ID
	return c.Update(ctx, address, fields)
}

// DeleteForOwner は所有者検査を通過した住所を削除する。
func (c *AddressController) DeleteForOwner(ctx context.Context, owner *model.User, uuid string) error {
	address, err := c.GetForOwner(ctx, owner, uuid)
	if err != nil {
		return err
	}
	return c.Delete(ctx, address)
}
