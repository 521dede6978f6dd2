package db

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
)

type migration struct {
	version string
	sql     string
}

var migrations = []migration{
	{
		version: "000_create_accounts",
		sql: `
			CREATE TABLE IF NOT EXISTS accounts (
				id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
				email         VARCHAR(255) NOT NULL UNIQUE,
				password_hash VARCHAR(255) NOT NULL,
				created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
			)`,
	},
	{
		version: "001_create_health_metrics",
		sql: `
			CREATE TABLE IF NOT EXISTS health_metrics (
				id               BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
				user_id          BIGINT UNSIGNED NOT NULL,
				weight_kg        DOUBLE NOT NULL,
				body_fat_percent DOUBLE NOT NULL,
				bmi              DOUBLE NOT NULL,
				muscle_percent   DOUBLE NOT NULL,
				water_percent    DOUBLE NOT NULL,
				note             VARCHAR(200),
				recorded_at      DATETIME(6) NOT NULL,
				created_at       DATETIME(6) NOT NULL,
				INDEX idx_health_metrics_user_recorded (user_id, recorded_at)
			)`,
	},
	{
		version: "002_create_health_preferences",
		sql: `
			CREATE TABLE IF NOT EXISTS health_preferences (
				id                    BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
				user_id               BIGINT UNSIGNED NOT NULL UNIQUE,
				target_weight_kg      DOUBLE,
				calorie_budget_kcal   INT,
				dietary_preference    VARCHAR(80),
				activity_level        VARCHAR(40),
				sleep_goal_hours      DOUBLE,
				hydration_goal_liters DOUBLE,
				updated_at            DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
			)`,
	},
	{
		version: "003_create_health_recommendations",
		sql: `
			CREATE TABLE IF NOT EXISTS health_recommendations (
				id                 BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
				user_id            BIGINT UNSIGNED NOT NULL,
				summary            TEXT NOT NULL,
				meal_plan          JSON NOT NULL,
				calorie_management JSON NOT NULL,
				weight_management  JSON NOT NULL,
				hydration          JSON NOT NULL,
				lifestyle          JSON NOT NULL,
				created_at         DATETIME(6) NOT NULL,
				INDEX idx_health_recommendations_user_created (user_id, created_at)
			)`,
	},
	{
		version: "004_create_assistant_messages",
		sql: `
			CREATE TABLE IF NOT EXISTS assistant_messages (
				id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
				user_id     BIGINT UNSIGNED NOT NULL,
				role        VARCHAR(16) NOT NULL,
				content     TEXT NOT NULL,
				need_change TINYINT(1) NOT NULL DEFAULT 0,
				change_log  JSON NOT NULL,
				created_at  DATETIME(6) NOT NULL,
				INDEX idx_assistant_messages_user_created (user_id, created_at)
			)`,
	},
}

func RunMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		applied, err := isMigrationApplied(db, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if err := executeMigration(db, m); err != nil {
			return err
		}

		log.Printf("applied migration: %s", m.version)
	}

	return nil
}

func isMigrationApplied(db *sql.DB, version string) (bool, error) {
	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?",
		version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check migration %s: %w", version, err)
	}
	return count > 0, nil
}

func executeMigration(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w", m.version, err)
	}

	for _, stmt := range strings.Split(m.sql, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %s: %w", m.version, err)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version) VALUES (?)",
		m.version,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %s: %w", m.version, err)
	}

	return tx.Commit()
}
