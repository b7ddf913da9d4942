package content

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foliostack/foliostack-go/internal/domain/entities/content"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"github.com/foliostack/foliostack-go/internal/infrastructure/security"
)

// ExperienceRepository persists work-experience rows.
type ExperienceRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewExperienceRepository(db *sql.DB, logger *logging.ChanneledLogger) *ExperienceRepository {
	return &ExperienceRepository{db: db, logger: logger}
}

func (r *ExperienceRepository) List(ctx context.Context) ([]content.Experience, error) {
	query := `SELECT id, company, role, period, description, display_order
		FROM experiences ORDER BY display_order ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query experiences: %w", err)
	}
	defer rows.Close()

	experiences := []content.Experience{}
	for rows.Next() {
		var e content.Experience
		if err := rows.Scan(&e.ID, &e.Company, &e.Role, &e.Period, &e.Description, &e.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		experiences = append(experiences, e)
	}
	return experiences, rows.Err()
}

func (r *ExperienceRepository) Insert(ctx context.Context, row content.Experience) (content.Experience, error) {
	if row.ID == "" {
		row.ID = security.GenerateULID()
	}

	query := `INSERT INTO experiences (id, company, role, period, description, display_order)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query,
		row.ID, row.Company, row.Role, row.Period, row.Description, row.DisplayOrder); err != nil {
		return content.Experience{}, fmt.Errorf("failed to insert experience: %w", err)
	}

	r.logger.Content().Debug("Experience inserted", "id", row.ID)
	return row, nil
}

func (r *ExperienceRepository) Update(ctx context.Context, id string, row content.Experience) (content.Experience, error) {
	query := `UPDATE experiences SET company = ?, role = ?, period = ?, description = ?, display_order = ?
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		row.Company, row.Role, row.Period, row.Description, row.DisplayOrder, id)
	if err != nil {
		return content.Experience{}, fmt.Errorf("failed to update experience %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return content.Experience{}, fmt.Errorf("experience %s not found", id)
	}

	row.ID = id
	r.logger.Content().Debug("Experience updated", "id", id)
	return row, nil
}

func (r *ExperienceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM experiences WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete experience %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("experience %s not found", id)
	}

	r.logger.Content().Debug("Experience deleted", "id", id)
	return nil
}
