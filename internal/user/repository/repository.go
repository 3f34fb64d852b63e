// Package repository はエンティティ非依存の永続化操作を提供する。
//
// 汎用リポジトリはエンティティのフィールド参照能力（model.Entity）だけに
// 依存してSQLを組み立てるため、テーブルごとのクエリ定義を持たない。
// 所有権などのドメイン規則は関知せず、上位のコントローラが担う。
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/nao1215/shophub/internal/user/db"
	"github.com/nao1215/shophub/internal/user/model"
)

// ErrInvalidArgument は存在しないカラム名や負のページング値など、
// 呼び出し側の引数不正を示す。
var ErrInvalidArgument = errors.New("引数が不正です")

// ErrConflict は一意制約などの制約違反による永続化の失敗を示す。
var ErrConflict = errors.New("制約違反により永続化に失敗しました")

// Repository はエンティティ型でパラメータ化された汎用リポジトリ。
// 注入されたセッションを通じて実行されるため、トランザクションが
// 開いていればその中で、なければ自動コミットで動作する。
type Repository[T model.Entity] struct {
	// sess はリクエスト専属のデータベースセッション。
	sess *db.Session
	// factory はデフォルト値設定済みのエンティティを生成する。
	factory func() T
}

// New は汎用リポジトリを生成する。
func New[T model.Entity](sess *db.Session, factory func() T) *Repository[T] {
	return &Repository[T]{sess: sess, factory: factory}
}

// Session はリポジトリが使用しているセッションを返す。
func (r *Repository[T]) Session() *db.Session {
	return r.sess
}

// Create は与えられたフィールドでエンティティを生成して挿入する。
// 挿入直後に採番された主キーをエンティティに反映する（トランザクションは確定しない）。
// 一意制約違反の場合はErrConflictを返す。
func (r *Repository[T]) Create(ctx context.Context, fields map[string]any) (T, error) {
	var zero T

	entity := r.factory()
	if err := applyFields(entity, fields); err != nil {
		return zero, err
	}

	now := time.Now().UTC()
	setTime(entity, "created_at", now)
	setTime(entity, "updated_at", now)

	cols := entity.Columns()[1:] // 主キーは自動採番
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		entity.TableName(), strings.Join(cols, ", "), placeholders,
	)

	args := make([]any, 0, len(cols))
	for _, col := range cols {
		ref, _ := entity.FieldRef(col)
		args = append(args, deref(ref))
	}

	result, err := r.sess.ExecContext(ctx, query, args...)
	if err != nil {
		if isConstraintViolation(err) {
			return zero, fmt.Errorf("%w: %s", ErrConflict, err)
		}
		return zero, fmt.Errorf("エンティティの挿入に失敗: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return zero, fmt.Errorf("採番された主キーの取得に失敗: %w", err)
	}
	if ref, ok := entity.FieldRef("id"); ok {
		*(ref.(*int64)) = id
	}

	return entity, nil
}

// GetAll は完全一致フィルタに合致するエンティティのページを返す。
// 並び順は主キー昇順（挿入順）。limitが0の場合は空のスライスを返す。
func (r *Repository[T]) GetAll(ctx context.Context, skip, limit int, filters map[string]any) ([]T, error) {
	if skip < 0 || limit < 0 {
		return nil, fmt.Errorf("%w: skipとlimitは非負でなければなりません", ErrInvalidArgument)
	}
	if limit == 0 {
		return []T{}, nil
	}

	probe := r.factory()
	where, args, err := buildFilter(probe, filters)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM %s%s ORDER BY id LIMIT ? OFFSET ?",
		strings.Join(probe.Columns(), ", "), probe.TableName(), where,
	)
	args = append(args, limit, skip)

	rows, err := r.sess.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("エンティティ一覧の取得に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entities := []T{}
	for rows.Next() {
		entity := r.factory()
		if err := rows.Scan(scanDests(entity)...); err != nil {
			return nil, fmt.Errorf("行の読み取りに失敗: %w", err)
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("行の走査に失敗: %w", err)
	}
	return entities, nil
}

// GetBy は指定カラムの完全一致で単一行を検索する。
// 該当行がない場合はエラーではなく第2戻り値falseを返す。
// 存在しないカラム名の場合はErrInvalidArgumentを返す。
func (r *Repository[T]) GetBy(ctx context.Context, field string, value any) (T, bool, error) {
	var zero T

	entity := r.factory()
	if _, ok := entity.FieldRef(field); !ok {
		return zero, false, fmt.Errorf("%w: 存在しないカラム %q", ErrInvalidArgument, field)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = ? LIMIT 1",
		strings.Join(entity.Columns(), ", "), entity.TableName(), field,
	)

	row := r.sess.QueryRowContext(ctx, query, value)
	if err := row.Scan(scanDests(entity)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("エンティティの取得に失敗: %w", err)
	}
	return entity, true, nil
}

// Update は与えられたフィールドをエンティティへ上書きしてから行を更新する。
// 指定されなかったフィールドは変更されない（部分更新）。
// 一意制約違反の場合はErrConflictを返すが、進行中のトランザクション自体は
// 巻き戻さず、破棄の判断は呼び出し側に委ねる。
func (r *Repository[T]) Update(ctx context.Context, entity T, fields map[string]any) (T, error) {
	var zero T

	if err := applyFields(entity, fields); err != nil {
		return zero, err
	}
	setTime(entity, "updated_at", time.Now().UTC())

	cols := entity.Columns()[1:]
	assignments := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)
	for _, col := range cols {
		ref, _ := entity.FieldRef(col)
		assignments = append(assignments, col+" = ?")
		args = append(args, deref(ref))
	}
	args = append(args, entity.PrimaryKey())

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = ?",
		entity.TableName(), strings.Join(assignments, ", "),
	)

	if _, err := r.sess.ExecContext(ctx, query, args...); err != nil {
		if isConstraintViolation(err) {
			return zero, fmt.Errorf("%w: %s", ErrConflict, err)
		}
		return zero, fmt.Errorf("エンティティの更新に失敗: %w", err)
	}
	return entity, nil
}

// Delete はエンティティの行を削除する。
// 永続化層のエラーで削除できなかった場合はfalseを返し、
// トランザクションを破棄するかどうかは呼び出し側が決める。
func (r *Repository[T]) Delete(ctx context.Context, entity T) bool {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", entity.TableName())
	if _, err := r.sess.ExecContext(ctx, query, entity.PrimaryKey()); err != nil {
		log.Printf("エンティティの削除に失敗: table=%s, id=%d, error=%v",
			entity.TableName(), entity.PrimaryKey(), err)
		return false
	}
	return true
}

// buildFilter は完全一致フィルタからWHERE句と引数を組み立てる。
// 再現性のためカラム名順に並べる。
func buildFilter(probe model.Entity, filters map[string]any) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		if _, ok := probe.FieldRef(k); !ok {
			return "", nil, fmt.Errorf("%w: 存在しないカラム %q", ErrInvalidArgument, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conditions := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		conditions = append(conditions, k+" = ?")
		args = append(args, filters[k])
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

// applyFields はフィールド名→値の組をエンティティへ反映する。
// 存在しないカラム名や型の合わない値はErrInvalidArgumentになる。
func applyFields(entity model.Entity, fields map[string]any) error {
	for name, value := range fields {
		ref, ok := entity.FieldRef(name)
		if !ok {
			return fmt.Errorf("%w: 存在しないカラム %q", ErrInvalidArgument, name)
		}
		if err := assign(ref, value); err != nil {
			return fmt.Errorf("%w: カラム %q: %s", ErrInvalidArgument, name, err)
		}
	}
	return nil
}

// assign は型付きポインタへ値を代入する。JSON由来の数値（float64）も受理する。
func assign(ref, value any) error {
	switch p := ref.(type) {
	case *string:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("文字列が必要です（%T）", value)
		}
		*p = v
	case *bool:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("真偽値が必要です（%T）", value)
		}
		*p = v
	case *int64:
		switch v := value.(type) {
		case int64:
			*p = v
		case int:
			*p = int64(v)
		case float64:
			*p = int64(v)
		default:
			return fmt.Errorf("整数が必要です（%T）", value)
		}
	case *time.Time:
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("時刻が必要です（%T）", value)
		}
		*p = v
	default:
		return fmt.Errorf("未対応のフィールド型です（%T）", ref)
	}
	return nil
}

// deref は型付きポインタからSQL引数用の値を取り出す。
func deref(ref any) any {
	switch p := ref.(type) {
	case *string:
		return *p
	case *bool:
		return *p
	case *int64:
		return *p
	case *time.Time:
		return *p
	default:
		return nil
	}
}

// setTime は時刻フィールドを設定する。カラムが存在しない場合は何もしない。
func setTime(entity model.Entity, column string, t time.Time) {
	if ref, ok := entity.FieldRef(column); ok {
		if p, ok := ref.(*time.Time); ok {
			*p = t
		}
	}
}

// scanDests は全カラムのスキャン先ポインタを定義順で返す。
func scanDests(entity model.Entity) []any {
	cols := entity.Columns()
	dests := make([]any, 0, len(cols))
	for _, col := range cols {
		ref, _ := entity.FieldRef(col)
		dests = append(dests, ref)
	}
	return dests
}

// isConstraintViolation はSQLiteの制約違反エラーかどうかを判定する。
func isConstraintViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "constraint")
}
