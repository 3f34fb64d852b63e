// Package controller はリポジトリ呼び出しをトランザクション境界で包み、
// 永続化層のエラーをドメインエラーへ変換する。
//
// 所有権検査（この住所はこのユーザーのものか等）は全てこの層で行い、
// リポジトリは関知しない。変更系の操作はREQUIRED伝播のトランザクションで
// 実行されるため、1リクエスト内の入れ子呼び出しは1つの原子単位を共有する。
package controller

import (
	"context"
	"errors"

	"github.com/nao1215/shophub/internal/user/db"
	"github.com/nao1215/shophub/internal/user/model"
	"github.com/nao1215/shophub/internal/user/repository"
	"github.com/nao1215/shophub/pkg/apperr"
)

// Controller はエンティティ型でパラメータ化された汎用コントローラ。
type Controller[T model.Entity] struct {
	// repo は委譲先の汎用リポジトリ。
	repo *repository.Repository[T]
	// sess はトランザクション境界に使うセッション。リポジトリと共有する。
	sess *db.Session
}

// NewController は汎用コントローラを生成する。
func NewController[T model.Entity](repo *repository.Repository[T]) *Controller[T] {
	return &Controller[T]{repo: repo, sess: repo.Session()}
}

// GetByID は主キーでエンティティを取得する。存在しない場合はNotFound。
// 読み取り専用のため独自のトランザクションは開かない。
func (c *Controller[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var zero T
	entity, found, err := c.repo.GetBy(ctx, "id", id)
	if err != nil {
		return zero, translate(err, "エンティティの取得に失敗しました")
	}
	if !found {
		return zero, apperr.NotFound("エンティティが見つかりません")
	}
	return entity, nil
}

// GetByUUID は外部公開識別子でエンティティを取得する。存在しない場合はNotFound。
func (c *Controller[T]) GetByUUID(ctx context.Context, uuid string) (T, error) {
	var zero T
	entity, found, err := c.repo.GetBy(ctx, "uuid", uuid)
	if err != nil {
		return zero, translate(err, "エンティティの取得に失敗しました")
	}
	if !found {
		return zero, apperr.NotFound("エンティティが見つかりません")
	}
	return entity, nil
}

// GetAll はページング条件とフィルタに合致するエンティティ一覧を返す。
func (c *Controller[T]) GetAll(ctx context.Context, skip, limit int, filters map[string]any) ([]T, error) {
	entities, err := c.repo.GetAll(ctx, skip, limit, filters)
	if err != nil {
		return nil, translate(err, "エンティティ一覧の取得に失敗しました")
	}
	return entities, nil
}

// Create はトランザクション境界の中でエンティティを作成する。
func (c *Controller[T]) Create(ctx context.Context, fields map[string]any) (T, error) {
	return db.WithTransaction(ctx, c.sess, db.PropagationRequired, func(ctx context.Context) (T, error) {
		var zero T
		entity, err := c.repo.Create(ctx, fields)
		if err != nil {
			return zero, translate(err, "エンティティの作成に失敗しました")
		}
		return entity, nil
	})
}

// Update はトランザクション境界の中で部分更新を適用する。
// fieldsに含まれないフィールドは変更されない。
func (c *Controller[T]) Update(ctx context.Context, entity T, fields map[string]any) (T, error) {
	return db.WithTransaction(ctx, c.sess, db.PropagationRequired, func(ctx context.Context) (T, error) {
		var zero T
		updated, err := c.repo.Update(ctx, entity, fields)
		if err != nil {
			return zero, translate(err, "エンティティの更新に失敗しました")
		}
		return updated, nil
	})
}

// Delete はトランザクション境界の中でエンティティを削除する。
func (c *Controller[T]) Delete(ctx context.Context, entity T) error {
	_, err := db.WithTransaction(ctx, c.sess, db.PropagationRequired, func(ctx context.Context) (struct{}, error) {
		if !c.repo.Delete(ctx, entity) {
			return struct{}{}, apperr.BadRequest("エンティティの削除に失敗しました", nil)
		}
		return struct{}{}, nil
	})
	return err
}

// translate はリポジトリ層のエラーをドメインエラーへ変換する。
// 既にドメインエラーである場合はそのまま通す。元エラーは診断用に保持され、
// 生のストアエラーが境界の外へ漏れることはない。
func translate(err error, message string) error {
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	switch {
	case errors.Is(err, repository.ErrConflict):
		return apperr.Wrap(apperr.KindDuplicateValue, "値が重複しています", err)
	case errors.Is(err, repository.ErrInvalidArgument):
		return apperr.BadRequest("引数が不正です", err)
	default:
		return apperr.BadRequest(message, err)
	}
}
