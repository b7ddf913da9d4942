package content

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foliostack/foliostack-go/internal/domain/entities/content"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"github.com/foliostack/foliostack-go/internal/infrastructure/security"
)

// SkillRepository persists skill rows. The public bucketing happens in the
// aggregator; the repository only guarantees ascending display_order.
type SkillRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewSkillRepository(db *sql.DB, logger *logging.ChanneledLogger) *SkillRepository {
	return &SkillRepository{db: db, logger: logger}
}

func (r *SkillRepository) List(ctx context.Context) ([]content.Skill, error) {
	query := `SELECT id, name, category, icon_name, display_order
		FROM skills ORDER BY display_order ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}
	defer rows.Close()

	skills := []content.Skill{}
	for rows.Next() {
		var s content.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.IconName, &s.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (r *SkillRepository) Insert(ctx context.Context, row content.Skill) (content.Skill, error) {
	if row.ID == "" {
		row.ID = security.GenerateULID()
	}

	query := `INSERT INTO skills (id, name, category, icon_name, display_order)
		VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query,
		row.ID, row.Name, row.Category, row.IconName, row.DisplayOrder); err != nil {
		return content.Skill{}, fmt.Errorf("failed to insert skill: %w", err)
	}

	r.logger.Content().Debug("Skill inserted", "id", row.ID)
	return row, nil
}

func (r *SkillRepository) Update(ctx context.Context, id string, row content.Skill) (content.Skill, error) {
	query := `UPDATE skills SET name = ?, category = ?, icon_name = ?, display_order = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		row.Name, row.Category, row.IconName, row.DisplayOrder, id)
	if err != nil {
		return content.Skill{}, fmt.Errorf("failed to update skill %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return content.Skill{}, fmt.Errorf("skill %s not found", id)
	}

	row.ID = id
	r.logger.Content().Debug("Skill updated", "id", id)
	return row, nil
}

func (r *SkillRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM skills WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete skill %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("skill %s not found", id)
	}

	r.logger.Content().Debug("Skill deleted", "id", id)
	return nil
}
