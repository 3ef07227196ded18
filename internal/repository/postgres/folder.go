package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"keepsafe/internal/domain"
	"keepsafe/internal/domain/models"
	"keepsafe/internal/domain/repositories"
)

const folderColumns = "id, name, parent_id, color, is_deleted, deleted_at, created_at, updated_at"

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanFolder(row interface{ Scan(...any) error }) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.Name,
		&folder.ParentID,
		&folder.Color,
		&folder.IsDeleted,
		&folder.DeletedAt,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// Create inserts a new folder row. Duplicate names among siblings are
// allowed, so no pre-insert lookup is performed.
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, parent_id, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		folder.Name,
		folder.ParentID,
		folder.Color,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID regardless of deleted state
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, folderColumns, r.tables.Folders)

	folder, err := scanFolder(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// FindByNameAndParent returns the first live folder with the given name
// under parentID, or nil if none exists.
func (r *PostgresFolderRepository) FindByNameAndParent(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE name = $1 AND parent_id IS NULL AND is_deleted = FALSE
			ORDER BY created_at ASC
			LIMIT 1
		`, folderColumns, r.tables.Folders)
		args = append(args, name)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE name = $1 AND parent_id = $2 AND is_deleted = FALSE
			ORDER BY created_at ASC
			LIMIT 1
		`, folderColumns, r.tables.Folders)
		args = append(args, name, *parentID)
	}

	folder, err := scanFolder(GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil // Not found, not an error
		}
		return nil, fmt.Errorf("find folder by name and parent: %w", err)
	}

	return folder, nil
}

// ListChildren lists immediate child folders with the given deleted state,
// ordered by name ascending.
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID *string, deleted bool) ([]models.Folder, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE parent_id IS NULL AND is_deleted = $1
			ORDER BY name ASC
		`, folderColumns, r.tables.Folders)
		args = append(args, deleted)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE parent_id = $1 AND is_deleted = $2
			ORDER BY name ASC
		`, folderColumns, r.tables.Folders)
		args = append(args, *parentID, deleted)
	}

	return r.queryFolders(ctx, query, args...)
}

// ListTrashed lists every trashed folder, most recently deleted first
func (r *PostgresFolderRepository) ListTrashed(ctx context.Context) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE is_deleted = TRUE
		ORDER BY deleted_at DESC
	`, folderColumns, r.tables.Folders)

	return r.queryFolders(ctx, query)
}

// ListChildIDs returns immediate child IDs regardless of deleted state
func (r *PostgresFolderRepository) ListChildIDs(ctx context.Context, parentID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT id
		FROM %s
		WHERE parent_id = $1
	`, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list child folder ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan folder id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder ids: %w", err)
	}

	return ids, nil
}

// UpdateColor sets the display color tag
func (r *PostgresFolderRepository) UpdateColor(ctx context.Context, id, color string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET color = $1, updated_at = $2
		WHERE id = $3
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, color, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update folder color: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetDeletedBatch flips the deleted flag on every folder in ids
func (r *PostgresFolderRepository) SetDeletedBatch(ctx context.Context, ids []string, deleted bool) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = $1,
		    deleted_at = CASE WHEN $1 THEN NOW() ELSE NULL END,
		    updated_at = NOW()
		WHERE id = ANY($2)
	`, r.tables.Folders)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, deleted, ids); err != nil {
		return fmt.Errorf("set folders deleted: %w", err)
	}

	return nil
}

// Delete removes the folder row permanently; descendant folder and file rows
// are removed by the store's ON DELETE CASCADE.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteBatch removes folder rows permanently by id list
func (r *PostgresFolderRepository) DeleteBatch(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = ANY($1)
	`, r.tables.Folders)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("delete folders: %w", err)
	}

	return nil
}

func (r *PostgresFolderRepository) queryFolders(ctx context.Context, query string, args ...interface{}) ([]models.Folder, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}
