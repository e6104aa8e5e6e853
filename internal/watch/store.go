package watch

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

// ProcessedStore 已处理文件台账
// 监听模式靠它避免对同一文件的重复转换
type ProcessedStore interface {
	IsProcessed(path string) (bool, error)
	MarkProcessed(path string) error
	Close() error
}

// sqliteStore 基于 SQLite 的台账实现
type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore 打开或创建台账数据库
func NewSQLiteStore(dbPath string) (ProcessedStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开台账数据库 %s 失败: %w", dbPath, err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS processed_files (
		path TEXT PRIMARY KEY,
		processed_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("创建台账表失败: %w", err)
	}

	log.Printf("台账数据库已就绪: %s", dbPath)
	return &sqliteStore{db: db}, nil
}

// IsProcessed 查询文件是否已处理
func (s *sqliteStore) IsProcessed(path string) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM processed_files WHERE path = ?", path).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("查询台账失败: %w", err)
	}
	return count > 0, nil
}

// MarkProcessed 登记一个已处理文件
func (s *sqliteStore) MarkProcessed(path string) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO processed_files (path) VALUES (?)", path)
	if err != nil {
		return fmt.Errorf("写入台账失败: %w", err)
	}
	return nil
}

// Close 关闭数据库
func (s *sqliteStore) Close() error {
	return s.db.Close()
}
