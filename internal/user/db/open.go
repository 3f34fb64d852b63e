package db

import (
	"database/sql"
	"embed"
	"fmt"

	_ "modernc.org/sqlite"
	"github.com/nao1215/shophub/pkg/migration"
)

// migrationsFS はユーザーサービスのスキーママイグレーション。
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open はSQLiteデータベースを開き、マイグレーションを適用する。
// pathに":memory:"を指定した場合はインメモリDBになる。
func Open(path string) (*sql.DB, error) {
	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	// インメモリDBはコネクションごとに独立するため、プールを1本に制限する
	if path == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := migration.Run(sqlDB, migrationsFS, "migrations"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("マイグレーションの適用に失敗: %w", err)
	}
	return sqlDB, nil
}
