package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"keepsafe/internal/domain"
	"keepsafe/internal/domain/models"
	"keepsafe/internal/domain/repositories"
)

const fileColumns = "id, filename, mime_type, size_bytes, storage_path, checksum, parent_folder_id, is_deleted, deleted_at, created_at, updated_at"

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanFile(row interface{ Scan(...any) error }) (*models.FileItem, error) {
	var file models.FileItem
	err := row.Scan(
		&file.ID,
		&file.Filename,
		&file.MimeType,
		&file.SizeBytes,
		&file.StoragePath,
		&file.Checksum,
		&file.ParentFolderID,
		&file.IsDeleted,
		&file.DeletedAt,
		&file.CreatedAt,
		&file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// Create inserts a new file record
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.FileItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (filename, mime_type, size_bytes, storage_path, checksum, parent_folder_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.Files)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		file.Filename,
		file.MimeType,
		file.SizeBytes,
		file.StoragePath,
		file.Checksum,
		file.ParentFolderID,
		file.CreatedAt,
		file.UpdatedAt,
	).Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("storage path %q: %w", file.StoragePath, domain.ErrConflict)
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByID retrieves a file by ID regardless of deleted state
func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*models.FileItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, fileColumns, r.tables.Files)

	file, err := scanFile(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return file, nil
}

// ListByParent lists files directly inside parentID with the given deleted
// state, newest first.
func (r *PostgresFileRepository) ListByParent(ctx context.Context, parentID *string, deleted bool) ([]models.FileItem, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE parent_folder_id IS NULL AND is_deleted = $1
			ORDER BY created_at DESC
		`, fileColumns, r.tables.Files)
		args = append(args, deleted)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE parent_folder_id = $1 AND is_deleted = $2
			ORDER BY created_at DESC
		`, fileColumns, r.tables.Files)
		args = append(args, *parentID, deleted)
	}

	return r.queryFiles(ctx, query, args...)
}

// ListTrashed lists every trashed file, most recently deleted first
func (r *PostgresFileRepository) ListTrashed(ctx context.Context) ([]models.FileItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE is_deleted = TRUE
		ORDER BY deleted_at DESC
	`, fileColumns, r.tables.Files)

	return r.queryFiles(ctx, query)
}

// ListByFolders returns all files parented by the given folders, regardless
// of deleted state.
func (r *PostgresFileRepository) ListByFolders(ctx context.Context, folderIDs []string) ([]models.FileItem, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE parent_folder_id = ANY($1)
	`, fileColumns, r.tables.Files)

	return r.queryFiles(ctx, query, folderIDs)
}

// SetDeleted flips the deleted flag on a single record
func (r *PostgresFileRepository) SetDeleted(ctx context.Context, id string, deleted bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = $1,
		    deleted_at = CASE WHEN $1 THEN NOW() ELSE NULL END,
		    updated_at = NOW()
		WHERE id = $2
	`, r.tables.Files)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, deleted, id)
	if err != nil {
		return fmt.Errorf("set file deleted: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetDeletedBatch flips the deleted flag on every file in ids
func (r *PostgresFileRepository) SetDeletedBatch(ctx context.Context, ids []string, deleted bool) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = $1,
		    deleted_at = CASE WHEN $1 THEN NOW() ELSE NULL END,
		    updated_at = NOW()
		WHERE id = ANY($2)
	`, r.tables.Files)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, deleted, ids); err != nil {
		return fmt.Errorf("set files deleted: %w", err)
	}

	return nil
}

// SetDeletedByFolders flips the deleted flag on every file parented by the
// given folders.
func (r *PostgresFileRepository) SetDeletedByFolders(ctx context.Context, folderIDs []string, deleted bool) error {
	if len(folderIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = $1,
		    deleted_at = CASE WHEN $1 THEN NOW() ELSE NULL END,
		    updated_at = NOW()
		WHERE parent_folder_id = ANY($2)
	`, r.tables.Files)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, deleted, folderIDs); err != nil {
		return fmt.Errorf("set files deleted by folder: %w", err)
	}

	return nil
}

// Delete removes the file record permanently
func (r *PostgresFileRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Files)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteBatch removes file records permanently by id list
func (r *PostgresFileRepository) DeleteBatch(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = ANY($1)
	`, r.tables.Files)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("delete files: %w", err)
	}

	return nil
}

func (r *PostgresFileRepository) queryFiles(ctx context.Context, query string, args ...interface{}) ([]models.FileItem, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []models.FileItem
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, *file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}
