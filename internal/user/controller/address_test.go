package controller

import (
	"context"
	"testing"

	"github.com/nao1215/shophub/internal/user/db"
	"github.com/nao1215/shophub/internal/user/model"
	"github.com/nao1215/shophub/internal/user/repository"
	"github.com/nao1215/shophub/pkg/apperr"
)

// newAddressFixture はテスト用のAddressControllerと2人のユーザーを生成する。
func newAddressFixture(t *testing.T) (*AddressController, *model.User, *model.User) {
	t.Helper()

	sess := newTestSession(t)
	addresses := repository.NewAddressRepository(sess)

	owner := createFixtureUser(t, sess, "owner@example.com", "owner")
	other := createFixtureUser(t, sess, "other@example.com", "other")
	return NewAddressController(addresses), owner, other
}

// createFixtureUser はテスト用ユーザーを直接作成する。
func createFixtureUser(t *testing.T, sess *db.Session, email, username string) *model.User {
	t.Helper()

	created, err := repository.NewUserRepository(sess).Create(context.Background(), map[string]any{
		"email":    email,
		"username": username,
		"password": "hashed",
	})
	if err != nil {
		t.Fatalf("テスト用ユーザーの作成に失敗: %v", err)
	}
	return created
}

// createFixtureAddress は所有者に紐付く住所を作成する。
func createFixtureAddress(t *testing.T, ctrl *AddressController, owner *model.User) *model.Address {
	t.Helper()

	created, err := ctrl.CreateForOwner(context.Background(), owner, map[string]any{
		"street_address": "1-1-1 Chiyoda",
		"city":           "Tokyo",
		"country":        "Japan",
	})
	if err != nil {
		t.Fatalf("テスト用住所の作成に失敗: %v", err)
	}
	return created
}

// TestAddressControllerCreateForOwner は所有者紐付けの作成を検証する。
func TestAddressControllerCreateForOwner(t *testing.T) {
	t.Parallel()

	t.Run("user_idと監査フィールドが所有者で上書きされること", func(t *testing.T) {
		t.Parallel()

		ctrl, owner, other := newAddressFixture(t)
		created, err := ctrl.CreateForOwner(context.Background(), owner, map[string]any{
			"street_address": "1-1-1 Chiyoda",
			"city":           "Tokyo",
			"country":        "Japan",
			// 別ユーザーのIDを指定しても無視される
			"user_id": other.ID,
		})
		if err != nil {
			t.Fatalf("CreateForOwner()でエラーが発生: %v", err)
		}

		if created.UserID != owner.ID {
			t.Errorf("所有者: got %d, want %d", created.UserID, owner.ID)
		}
		if created.CreatedBy != owner.ID || created.UpdatedBy != owner.ID {
			t.Errorf("監査フィールドは所有者のIDであるべき: created_by=%d, updated_by=%d",
				created.CreatedBy, created.UpdatedBy)
		}
	})
}

// TestAddressControllerOwnership は所有者検査を検証する。
func TestAddressControllerOwnership(t *testing.T) {
	t.Parallel()

	t.Run("存在しない住所はNotFound、他人の住所はForbiddenになること", func(t *testing.T) {
		t.Parallel()

		ctrl, owner, other := newAddressFixture(t)
		created := createFixtureAddress(t, ctrl, owner)

		_, err := ctrl.GetForOwner(context.Background(), owner, "00000000-0000-0000-0000-000000000000")
		assertKind(t, err, apperr.KindNotFound)

		_, err = ctrl.GetForOwner(context.Background(), other, created.UUID)
		assertKind(t, err, apperr.KindForbidden)

		got, err := ctrl.GetForOwner(context.Background(), owner, created.UUID)
		if err != nil {
			t.Fatalf("所有者本人の取得でエラーが発生: %v", err)
		}
		if got.ID != created.ID {
			t.Errorf("取得結果が一致しない: %+v", got)
		}
	})

	t.Run("他人による更新は拒否され行が変更されないこと", func(t *testing.T) {
		t.Parallel()

		ctrl, owner, other := newAddressFixture(t)
		created := createFixtureAddress(t, ctrl, owner)

		_, err := ctrl.UpdateForOwner(context.Background(), other, created.UUID, map[string]any{
			"city": "Osaka",
		})
		assertKind(t, err, apperr.KindForbidden)

		got, err := ctrl.GetForOwner(context.Background(), owner, created.UUID)
		if err != nil {
			t.Fatalf("GetForOwner()でエラーが発生: %v", err)
		}
		if got.City != "Tokyo" {
			t.Errorf("拒否された更新が適用されている: city=%q", got.City)
		}
	})

	t.Run("他人による削除は拒否され行が残ること", func(t *testing.T) {
		t.Parallel()

		ctrl, owner, other := newAddressFixture(t)
		created := createFixtureAddress(t, ctrl, owner)

		err := ctrl.DeleteForOwner(context.Background(), other, created.UUID)
		assertKind(t, err, apperr.KindForbidden)

		if _, err := ctrl.GetForOwner(context.Background(), owner, created.UUID); err != nil {
			t.Errorf("拒否された削除で行が消えている: %v", err)
		}
	})

	t.Run("所有者本人は更新と削除ができること", func(t *testing.T) {
		t.Parallel()

		ctrl, owner, _ := newAddressFixture(t)
		created := createFixtureAddress(t, ctrl, owner)

		updated, err := ctrl.UpdateForOwner(context.Background(), owner, created.UUID, map[string]any{
			"city":         "Kyoto",
			"address_type": model.AddressTypeBilling,
		})
		if err != nil {
			t.Fatalf("UpdateForOwner()でエラーが発生: %v", err)
		}
		if updated.City != "Kyoto" || updated.AddressType != model.AddressTypeBilling {
			t.Errorf("更新が適用されていない: %+v", updated)
		}
		if updated.StreetAddress != "1-1-1 Chiyoda" {
			t.Errorf("指定していないフィールドが変更されている: %q", updated.StreetAddress)
		}

		if err := ctrl.DeleteForOwner(context.Background(), owner, created.UUID); err != nil {
			t.Fatalf("DeleteForOwner()でエラーが発生: %v", err)
		}
		_, err = ctrl.GetForOwner(context.Background(), owner, created.UUID)
		assertKind(t, err, apperr.KindNotFound)
	})
}

// TestAddressControllerListForOwner は所有者別の一覧取得を検証する。
func TestAddressControllerListForOwner(t *testing.T) {
	t.Parallel()

	t.Run("所有者の住所だけがページングされて返ること", func(t *testing.T) {
		t.Parallel()

		ctrl, owner, other := newAddressFixture(t)
		for i := 0; i < 3; i++ {
			createFixtureAddress(t, ctrl, owner)
		}
		createFixtureAddress(t, ctrl, other)

		page, err := ctrl.ListForOwner(context.Background(), owner, 0, 2)
		if err != nil {
			t.Fatalf("ListForOwner()でエラーが発生: %v", err)
		}
		if len(page) != 2 {
			t.Fatalf("ページサイズ: got %d, want 2", len(page))
		}
		for _, a := range page {
			if a.UserID != owner.ID {
				t.Errorf("別の所有者の住所が混入している: user_id=%d", a.UserID)
			}
		}

		rest, err := ctrl.ListForOwner(context.Background(), owner, 2, 2)
		if err != nil {
			t.Fatalf("ListForOwner()でエラーが発生: %v", err)
		}
		if len(rest) != 1 {
			t.Errorf("残りページのサイズ: got %d, want 1", len(rest))
		}
	})
}
