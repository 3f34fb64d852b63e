package db

import (
	"context"
	"fmt"
	"log"
)

// Propagation はトランザクション伝播ポリシー。
type Propagation int

const (
	// PropagationRequired は開いているトランザクションがあれば参加し、
	// なければ新規に開始する。入れ子の呼び出しは1つの原子単位を共有する。
	PropagationRequired Propagation = iota
	// PropagationRequiresNew は常に新しいトランザクションで実行する。
	// 開いているトランザクションは一時退避し、完了後に復元する。
	PropagationRequiresNew
)

// WithTransaction はfnをトランザクション境界の中で実行する。
// fnが正常に返った場合はコミットし、エラーまたはパニックの場合はロールバックする。
// PropagationRequiredで既にトランザクションが開いている場合は、
// 確定・破棄を外側の境界に委ねてfnをそのまま実行する。
func WithTransaction[T any](ctx context.Context, sess *Session, propagation Propagation, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if propagation == PropagationRequired && sess.InTx() {
		return fn(ctx)
	}

	if propagation == PropagationRequiresNew && sess.InTx() {
		prev := sess.tx
		sess.tx = nil
		defer func() { sess.tx = prev }()
	}

	if err := sess.Begin(ctx); err != nil {
		return zero, err
	}

	defer func() {
		if r := recover(); r != nil {
			if err := sess.Rollback(); err != nil {
				log.Printf("パニック後のロールバックに失敗: %v", err)
			}
			panic(r)
		}
	}()

	result, err := fn(ctx)
	if err != nil {
		if rbErr := sess.Rollback(); rbErr != nil {
			log.Printf("ロールバックに失敗: %v", rbErr)
		}
		return zero, err
	}

	if err := sess.Commit(); err != nil {
		return zero, fmt.Errorf("トランザクションの確定に失敗: %w", err)
	}
	return result, nil
}
