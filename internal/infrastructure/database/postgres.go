package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

// PostgreSQLClient PostgreSQL直接接続クライアント
type PostgreSQLClient struct {
	DB *sql.DB
}

// NewPostgreSQLClient DATABASE_URL環境変数から新しいPostgreSQLクライアントを作成
func NewPostgreSQLClient() (*PostgreSQLClient, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL環境変数が設定されていません")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("PostgreSQL接続の初期化に失敗: %w", err)
	}

	// 接続テスト
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("PostgreSQLへの接続に失敗: %w", err)
	}

	return &PostgreSQLClient{
		DB: db,
	}, nil
}

// Close データベース接続を閉じる
func (pc *PostgreSQLClient) Close() error {
	if pc.DB != nil {
		return pc.DB.Close()
	}
	return nil
}

// HealthCheck データベース接続のヘルスチェック
func (pc *PostgreSQLClient) HealthCheck() error {
	if pc.DB == nil {
		return fmt.Errorf("PostgreSQLクライアントが初期化されていません")
	}
	return pc.DB.Ping()
}
