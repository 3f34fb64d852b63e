// Package db はユーザーサービスの永続化セッションとトランザクション境界を提供する。
//
// セッションは1リクエストにつき1つ生成し、リクエスト間で共有してはならない。
// トランザクションが開いている間、全てのクエリはそのトランザクションを経由する。
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrTxAlreadyOpen は開いているトランザクションの二重開始を示す。
var ErrTxAlreadyOpen = errors.New("トランザクションは既に開始されています")

// ErrTxNotOpen はトランザクション未開始での確定・破棄を示す。
var ErrTxNotOpen = errors.New("トランザクションが開始されていません")

// Session は1リクエスト分のデータベースセッション。
// 最大1つのトランザクションを保持し、開いている間は全クエリをそこに振り向ける。
type Session struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
	// tx は開いているトランザクション。nilの場合は自動コミットで実行される。
	tx *sql.Tx
}

// NewSession は新しいセッションを生成する。
func NewSession(db *sql.DB) *Session {
	return &Session{db: db}
}

// InTx はトランザクションが開いているかどうかを返す。
func (s *Session) InTx() bool {
	return s.tx != nil
}

// Begin は新しいトランザクションを開始する。
func (s *Session) Begin(ctx context.Context) error {
	if s.tx != nil {
		return ErrTxAlreadyOpen
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	s.tx = tx
	return nil
}

// Commit は開いているトランザクションを確定する。
func (s *Session) Commit() error {
	if s.tx == nil {
		return ErrTxNotOpen
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクション確定に失敗: %w", err)
	}
	return nil
}

// Rollback は開いているトランザクションを破棄する。
// 部分的な書き込みは一切残らない。
func (s *Session) Rollback() error {
	if s.tx == nil {
		return ErrTxNotOpen
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("トランザクション破棄に失敗: %w", err)
	}
	return nil
}

// ExecContext は書き込みクエリを実行する。
func (s *Session) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.tx != nil {
		return s.tx.ExecContext(ctx, query, args...)
	}
	return s.db.ExecContext(ctx, query, args...)
}

// QueryContext は複数行を返すクエリを実行する。
func (s *Session) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if s.tx != nil {
		return s.tx.QueryContext(ctx, query, args...)
	}
	return s.db.QueryContext(ctx, query, args...)
}

// QueryRowContext は単一行を返すクエリを実行する。
func (s *Session) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	if s.tx != nil {
		return s.tx.QueryRowContext(ctx, query, args...)
	}
	return s.db.QueryRowContext(ctx, query, args...)
}
