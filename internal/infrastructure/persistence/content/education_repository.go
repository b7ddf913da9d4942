package content

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foliostack/foliostack-go/internal/domain/entities/content"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"github.com/foliostack/foliostack-go/internal/infrastructure/security"
)

// EducationRepository persists education rows.
type EducationRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewEducationRepository(db *sql.DB, logger *logging.ChanneledLogger) *EducationRepository {
	return &EducationRepository{db: db, logger: logger}
}

func (r *EducationRepository) List(ctx context.Context) ([]content.Education, error) {
	query := `SELECT id, school, degree, year, location, display_order
		FROM education ORDER BY display_order ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query education: %w", err)
	}
	defer rows.Close()

	records := []content.Education{}
	for rows.Next() {
		var e content.Education
		if err := rows.Scan(&e.ID, &e.School, &e.Degree, &e.Year, &e.Location, &e.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		records = append(records, e)
	}
	return records, rows.Err()
}

func (r *EducationRepository) Insert(ctx context.Context, row content.Education) (content.Education, error) {
	if row.ID == "" {
		row.ID = security.GenerateULID()
	}

	query := `INSERT INTO education (id, school, degree, year, location, display_order)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query,
		row.ID, row.School, row.Degree, row.Year, row.Location, row.DisplayOrder); err != nil {
		return content.Education{}, fmt.Errorf("failed to insert education: %w", err)
	}

	r.logger.Content().Debug("Education inserted", "id", row.ID)
	return row, nil
}

func (r *EducationRepository) Update(ctx context.Context, id string, row content.Education) (content.Education, error) {
	query := `UPDATE education SET school = ?, degree = ?, year = ?, location = ?, display_order = ?
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		row.School, row.Degree, row.Year, row.Location, row.DisplayOrder, id)
	if err != nil {
		return content.Education{}, fmt.Errorf("failed to update education %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return content.Education{}, fmt.Errorf("education %s not found", id)
	}

	row.ID = id
	r.logger.Content().Debug("Education updated", "id", id)
	return row, nil
}

func (r *EducationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM education WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete education %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("education %s not found", id)
	}

	r.logger.Content().Debug("Education deleted", "id", id)
	return nil
}
