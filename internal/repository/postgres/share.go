package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"keepsafe/internal/domain"
	"keepsafe/internal/domain/models"
	"keepsafe/internal/domain/repositories"
)

// PostgresShareRepository implements the ShareRepository interface
type PostgresShareRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewShareRepository creates a new share repository
func NewShareRepository(config *RepositoryConfig) repositories.ShareRepository {
	return &PostgresShareRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Grant inserts an ACL row. The unique constraint on
// (folder_id, shared_email) turns a duplicate grant into a conflict instead
// of a second row.
func (r *PostgresShareRepository) Grant(ctx context.Context, share *models.FolderShare) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (folder_id, shared_email, granted_at)
		VALUES ($1, $2, $3)
		RETURNING id, granted_at
	`, r.tables.FolderShares)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		share.FolderID,
		share.SharedEmail,
		share.GrantedAt,
	).Scan(&share.ID, &share.GrantedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("%s already has access to this folder", share.SharedEmail),
				ResourceType: "share",
				ResourceID:   share.FolderID,
			}
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder %s: %w", share.FolderID, domain.ErrNotFound)
		}
		return fmt.Errorf("grant folder share: %w", err)
	}

	return nil
}

// ListByFolder lists active grants on a folder, oldest first
func (r *PostgresShareRepository) ListByFolder(ctx context.Context, folderID string) ([]models.FolderShare, error) {
	query := fmt.Sprintf(`
		SELECT id, folder_id, shared_email, granted_at
		FROM %s
		WHERE folder_id = $1
		ORDER BY granted_at ASC
	`, r.tables.FolderShares)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder shares: %w", err)
	}
	defer rows.Close()

	var shares []models.FolderShare
	for rows.Next() {
		var share models.FolderShare
		err := rows.Scan(
			&share.ID,
			&share.FolderID,
			&share.SharedEmail,
			&share.GrantedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder share: %w", err)
		}
		shares = append(shares, share)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder shares: %w", err)
	}

	return shares, nil
}
