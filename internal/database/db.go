package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// schema is applied statement by statement at startup.  Every table is
// created IF NOT EXISTS, so running against an existing database is a
// no-op.  The unique keys matter as much as the columns: users.email
// makes email a real identity key, and jam_members(session_id,
// member_email) backstops the join dedup check under races.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(191) NOT NULL,
		email VARCHAR(191) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL DEFAULT '',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_refresh_hash (token_hash),
		KEY idx_refresh_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS venues (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		venue_no BIGINT UNSIGNED NOT NULL,
		name VARCHAR(191) NOT NULL,
		location VARCHAR(255) NOT NULL,
		price_per_hour DOUBLE NOT NULL DEFAULT 0,
		owner_email VARCHAR(191) NOT NULL,
		instruments TEXT NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'OPEN',
		image_url VARCHAR(255) NOT NULL DEFAULT '',
		description TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_venues_status (status),
		KEY idx_venues_owner (owner_email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS jam_sessions (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		session_no BIGINT UNSIGNED NOT NULL,
		name VARCHAR(191) NOT NULL,
		scheduled_at DATETIME NOT NULL,
		genre VARCHAR(64) NOT NULL DEFAULT '',
		required_instruments TEXT NOT NULL,
		venue_type VARCHAR(16) NOT NULL DEFAULT 'PUBLIC',
		venue_id BIGINT UNSIGNED NULL,
		host_email VARCHAR(191) NOT NULL,
		description TEXT NOT NULL,
		member_count INT UNSIGNED NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_sessions_host (host_email),
		KEY idx_sessions_scheduled (scheduled_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS jam_members (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		session_id BIGINT UNSIGNED NOT NULL,
		venue_id BIGINT UNSIGNED NULL,
		host_email VARCHAR(191) NOT NULL,
		member_email VARCHAR(191) NOT NULL,
		joined_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_members_session_email (session_id, member_email),
		KEY idx_members_email (member_email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS counters (
		name VARCHAR(64) NOT NULL,
		value BIGINT UNSIGNED NOT NULL DEFAULT 0,
		PRIMARY KEY (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing tables.  Call once at startup.
func EnsureSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
