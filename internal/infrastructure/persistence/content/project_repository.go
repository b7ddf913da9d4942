// Package content provides the store-backed repositories for the
// public-facing content tables.
package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/foliostack/foliostack-go/internal/domain/entities/content"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"github.com/foliostack/foliostack-go/internal/infrastructure/security"
)

// ProjectRepository persists projects. Rows are listed ascending by
// display_order; ties fall back to store insertion order.
type ProjectRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewProjectRepository(db *sql.DB, logger *logging.ChanneledLogger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

func (r *ProjectRepository) List(ctx context.Context) ([]content.Project, error) {
	query := `SELECT id, title, description, image_url, demo_url, repo_url, technologies, display_order, is_featured
		FROM projects ORDER BY display_order ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := []content.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Insert(ctx context.Context, row content.Project) (content.Project, error) {
	if row.ID == "" {
		row.ID = security.GenerateULID()
	}

	techJSON, err := json.Marshal(row.Technologies)
	if err != nil {
		return content.Project{}, fmt.Errorf("failed to marshal technologies: %w", err)
	}

	query := `INSERT INTO projects (id, title, description, image_url, demo_url, repo_url, technologies, display_order, is_featured)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		row.ID, row.Title, row.Description, row.ImageURL, row.DemoURL, row.RepoURL,
		string(techJSON), row.DisplayOrder, boolToInt(row.IsFeatured))
	if err != nil {
		return content.Project{}, fmt.Errorf("failed to insert project: %w", err)
	}

	r.logger.Content().Debug("Project inserted", "id", row.ID)
	return row, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id string, row content.Project) (content.Project, error) {
	techJSON, err := json.Marshal(row.Technologies)
	if err != nil {
		return content.Project{}, fmt.Errorf("failed to marshal technologies: %w", err)
	}

	query := `UPDATE projects SET title = ?, description = ?, image_url = ?, demo_url = ?, repo_url = ?,
		technologies = ?, display_order = ?, is_featured = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		row.Title, row.Description, row.ImageURL, row.DemoURL, row.RepoURL,
		string(techJSON), row.DisplayOrder, boolToInt(row.IsFeatured), id)
	if err != nil {
		return content.Project{}, fmt.Errorf("failed to update project %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return content.Project{}, fmt.Errorf("project %s not found", id)
	}

	row.ID = id
	r.logger.Content().Debug("Project updated", "id", id)
	return row, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("project %s not found", id)
	}

	r.logger.Content().Debug("Project deleted", "id", id)
	return nil
}

func scanProject(rows *sql.Rows) (content.Project, error) {
	var p content.Project
	var techJSON string
	var featured int

	if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.DemoURL, &p.RepoURL,
		&techJSON, &p.DisplayOrder, &featured); err != nil {
		return content.Project{}, fmt.Errorf("failed to scan project: %w", err)
	}

	p.Technologies = []string{}
	if techJSON != "" {
		if err := json.Unmarshal([]byte(techJSON), &p.Technologies); err != nil {
			return content.Project{}, fmt.Errorf("failed to unmarshal technologies for %s: %w", p.ID, err)
		}
	}
	p.IsFeatured = featured != 0
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
