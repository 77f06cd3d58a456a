package db

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

const (
	driverName = "mysql"
)

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// EventConfig: 開催期間（7日間）と QR まわりの設定
type EventConfig struct {
	BaseURL string   `yaml:"base_url"`
	QRDir   string   `yaml:"qr_dir"`
	Days    []string `yaml:"days"` // "YYYY-MM-DD"、day_1..day_7 の順
}

type MailConfig struct {
	From     string `yaml:"from"`
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	Username string `yaml:"username"`
}

type PaginationConfig struct {
	PerPage int `yaml:"per_page"`
}

type Config struct {
	Version     string           `yaml:"version"`
	Mode        string           `yaml:"mode"`
	HTTP        HTTPConfig       `yaml:"http"`
	DB          DatabaseConfig   `yaml:"database"`
	Certificate Certs            `yaml:"certificate"`
	Event       EventConfig      `yaml:"event"`
	Mail        MailConfig       `yaml:"mail"`
	Pagination  PaginationConfig `yaml:"pagination"`
}

func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込み失敗: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルのパース失敗: %w", err)
	}
	if cfg.Pagination.PerPage <= 0 {
		cfg.Pagination.PerPage = 50
	}
	return &cfg, nil
}

func Connect(c DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&tls=false&timeout=3s&readTimeout=5s&writeTimeout=5s&loc=UTC",
		c.Username, c.Password, c.Host, c.Port, c.DBName)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("接続準備に失敗: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("DB接続に失敗: %w", err)
	}

	// 接続プール（合算がMySQLの max_connections を超えないよう配分する）
	db.SetMaxOpenConns(80)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

// EnsureSchema: 必要なテーブルが無ければ作成する
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(191) PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(32) NOT NULL,
		age INT NOT NULL,
		preacher VARCHAR(100) NOT NULL,
		center VARCHAR(100) NOT NULL,
		message TEXT NULL,
		payment_id VARCHAR(64) NULL,
		is_pending TINYINT NOT NULL DEFAULT 1
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`); err != nil {
		return err
	}

	if _, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS attendance (
		user_id VARCHAR(191) PRIMARY KEY,
		qr_code_location VARCHAR(255) NOT NULL,
		day_1 TINYINT NOT NULL DEFAULT 0,
		day_2 TINYINT NOT NULL DEFAULT 0,
		day_3 TINYINT NOT NULL DEFAULT 0,
		day_4 TINYINT NOT NULL DEFAULT 0,
		day_5 TINYINT NOT NULL DEFAULT 0,
		day_6 TINYINT NOT NULL DEFAULT 0,
		day_7 TINYINT NOT NULL DEFAULT 0
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`); err != nil {
		return err
	}

	return nil
}
