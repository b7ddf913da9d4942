package content

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foliostack/foliostack-go/internal/domain/entities/content"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"github.com/foliostack/foliostack-go/internal/infrastructure/security"
)

// SocialRepository persists social-link rows. Duplicate platforms are not
// deduplicated here; the aggregator resolves them last-write-wins.
type SocialRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewSocialRepository(db *sql.DB, logger *logging.ChanneledLogger) *SocialRepository {
	return &SocialRepository{db: db, logger: logger}
}

func (r *SocialRepository) List(ctx context.Context) ([]content.Social, error) {
	query := `SELECT id, platform, url, icon_name, display_order
		FROM socials ORDER BY display_order ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query socials: %w", err)
	}
	defer rows.Close()

	socials := []content.Social{}
	for rows.Next() {
		var s content.Social
		if err := rows.Scan(&s.ID, &s.Platform, &s.URL, &s.IconName, &s.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan social: %w", err)
		}
		socials = append(socials, s)
	}
	return socials, rows.Err()
}

func (r *SocialRepository) Insert(ctx context.Context, row content.Social) (content.Social, error) {
	if row.ID == "" {
		row.ID = security.GenerateULID()
	}

	query := `INSERT INTO socials (id, platform, url, icon_name, display_order)
		VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query,
		row.ID, row.Platform, row.URL, row.IconName, row.DisplayOrder); err != nil {
		return content.Social{}, fmt.Errorf("failed to insert social: %w", err)
	}

	r.logger.Content().Debug("Social inserted", "id", row.ID)
	return row, nil
}

func (r *SocialRepository) Update(ctx context.Context, id string, row content.Social) (content.Social, error) {
	query := `UPDATE socials SET platform = ?, url = ?, icon_name = ?, display_order = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		row.Platform, row.URL, row.IconName, row.DisplayOrder, id)
	if err != nil {
		return content.Social{}, fmt.Errorf("failed to update social %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return content.Social{}, fmt.Errorf("social %s not found", id)
	}

	row.ID = id
	r.logger.Content().Debug("Social updated", "id", id)
	return row, nil
}

func (r *SocialRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM socials WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete social %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("social %s not found", id)
	}

	r.logger.Content().Debug("Social deleted", "id", id)
	return nil
}
