package database

import (
	"database/sql"
	"fmt"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		demo_url TEXT NOT NULL DEFAULT '',
		repo_url TEXT NOT NULL DEFAULT '',
		technologies TEXT NOT NULL DEFAULT '[]',
		display_order INTEGER NOT NULL DEFAULT 0,
		is_featured INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS experiences (
		id TEXT PRIMARY KEY,
		company TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT '',
		period TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		display_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS education (
		id TEXT PRIMARY KEY,
		school TEXT NOT NULL,
		degree TEXT NOT NULL DEFAULT '',
		year TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		display_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS skills (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'Languages',
		icon_name TEXT NOT NULL DEFAULT '',
		display_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS socials (
		id TEXT PRIMARY KEY,
		platform TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		icon_name TEXT NOT NULL DEFAULT '',
		display_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		is_read INTEGER NOT NULL DEFAULT 0
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_projects_order ON projects(display_order)`,
	`CREATE INDEX IF NOT EXISTS idx_experiences_order ON experiences(display_order)`,
	`CREATE INDEX IF NOT EXISTS idx_education_order ON education(display_order)`,
	`CREATE INDEX IF NOT EXISTS idx_skills_order ON skills(display_order)`,
	`CREATE INDEX IF NOT EXISTS idx_socials_order ON socials(display_order)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_unread ON messages(is_read)`,
}

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}
