package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/shophub/internal/user/db"
	"github.com/nao1215/shophub/internal/user/repository"
	"github.com/nao1215/shophub/pkg/apperr"
)

// newTestSession はマイグレーション適用済みのインメモリDBセッションを生成する。
func newTestSession(t *testing.T) *db.Session {
	t.Helper()

	sqlDB, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("テスト用DBの初期化に失敗: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db.NewSession(sqlDB)
}

// assertKind はドメインエラーの種別を検証する。
func assertKind(t *testing.T, err error, want apperr.Kind) {
	t.Helper()

	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("ドメインエラーが返るべき: %v", err)
	}
	if domainErr.Kind != want {
		t.Errorf("エラー種別: got %v, want %v (message=%q)", domainErr.Kind, want, domainErr.Message)
	}
}

// TestControllerErrorTranslation は永続化層エラーのドメインエラーへの変換を検証する。
func TestControllerErrorTranslation(t *testing.T) {
	t.Parallel()

	t.Run("一意制約違反はDuplicateValueになること", func(t *testing.T) {
		t.Parallel()

		users := repository.NewUserRepository(newTestSession(t))
		ctrl := NewController(users.Repository)

		fields := map[string]any{
			"email":    "dup@example.com",
			"username": "dup",
			"password": "hashed",
		}
		if _, err := ctrl.Create(context.Background(), fields); err != nil {
			t.Fatalf("1件目の作成でエラーが発生: %v", err)
		}
		_, err := ctrl.Create(context.Background(), fields)
		assertKind(t, err, apperr.KindDuplicateValue)
	})

	t.Run("存在しないカラム名はBadRequestになること", func(t *testing.T) {
		t.Parallel()

		users := repository.NewUserRepository(newTestSession(t))
		ctrl := NewController(users.Repository)

		_, err := ctrl.Create(context.Background(), map[string]any{"no_such_column": "x"})
		assertKind(t, err, apperr.KindBadRequest)
	})

	t.Run("存在しないエンティティの取得はNotFoundになること", func(t *testing.T) {
		t.Parallel()

		users := repository.NewUserRepository(newTestSession(t))
		ctrl := NewController(users.Repository)

		_, err := ctrl.GetByUUID(context.Background(), "00000000-0000-0000-0000-000000000000")
		assertKind(t, err, apperr.KindNotFound)
	})
}

// TestControllerTransaction はコントローラ操作のトランザクション境界を検証する。
func TestControllerTransaction(t *testing.T) {
	t.Parallel()

	t.Run("外側のトランザクションに参加し失敗で全体が巻き戻ること", func(t *testing.T) {
		t.Parallel()

		sess := newTestSession(t)
		users := repository.NewUserRepository(sess)
		ctrl := NewController(users.Repository)

		wantErr := errors.New("外側の失敗")
		_, err := db.WithTransaction(context.Background(), sess, db.PropagationRequired,
			func(ctx context.Context) (struct{}, error) {
				// 内側のCreateは外側のトランザクションへ参加する
				if _, err := ctrl.Create(ctx, map[string]any{
					"email":    "tx@example.com",
					"username": "tx",
					"password": "hashed",
				}); err != nil {
					t.Fatalf("内側の作成でエラーが発生: %v", err)
				}
				return struct{}{}, wantErr
			})
		if !errors.Is(err, wantErr) {
			t.Fatalf("外側のエラーが返るべき: %v", err)
		}

		_, found, err := users.GetByEmail(context.Background(), "tx@example.com")
		if err != nil {
			t.Fatalf("GetByEmail()でエラーが発生: %v", err)
		}
		if found {
			t.Error("巻き戻ったはずの行が残っている")
		}
	})

	t.Run("成功した作成は確定されて検索できること", func(t *testing.T) {
		t.Parallel()

		sess := newTestSession(t)
		users := repository.NewUserRepository(sess)
		ctrl := NewController(users.Repository)

		created, err := ctrl.Create(context.Background(), map[string]any{
			"email":    "committed@example.com",
			"username": "committed",
			"password": "hashed",
		})
		if err != nil {
			t.Fatalf("Create()でエラーが発生: %v", err)
		}

		got, err := ctrl.GetByID(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("GetByID()でエラーが発生: %v", err)
		}
		if got.Email != "committed@example.com" {
			t.Errorf("確定された内容が一致しない: %+v", got)
		}
	})
}
