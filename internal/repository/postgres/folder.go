package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"matterdesk/internal/domain"
	"matterdesk/internal/domain/models"
	"matterdesk/internal/domain/repositories"
)

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

// Insert creates a new folder row. A colliding tree_item_id surfaces as
// domain.ErrDuplicateEntry, never as a silent overwrite.
func (r *PostgresFolderRepository) Insert(ctx context.Context, folder *models.TreeItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (tree_item_id, uid, name, parent_id, file_collection_id, matter_id, description, is_archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.tables.Folders)

	_, err := r.pool.Exec(ctx, query,
		folder.TreeItemID,
		folder.UID,
		folder.Name,
		folder.ParentID,
		folder.FileCollectionID,
		folder.MatterID,
		folder.Description,
		folder.Archived(),
		folder.CreatedAt,
		folder.UpdatedAt,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("folder %s: %w", folder.TreeItemID, domain.ErrDuplicateEntry)
		}
		return fmt.Errorf("insert folder: %w", err)
	}

	return nil
}

// Find lists folders for an owner. The default query excludes archived rows
// and rows with a parent; the OnlyArchived query is its complement over the
// same parent scope, so their union equals the full scope. Complementarity
// holds because is_archived is NOT NULL DEFAULT false: a nullable flag would
// let rows fall out of both branches of the equality predicate.
func (r *PostgresFolderRepository) Find(ctx context.Context, filter repositories.FolderFilter) ([]models.TreeItem, error) {
	query := fmt.Sprintf(`
		SELECT tree_item_id, uid, name, parent_id, file_collection_id, matter_id, description, is_archived, created_at, updated_at
		FROM %s
		WHERE uid = $1 AND is_archived = $2
	`, r.tables.Folders)
	args := []interface{}{filter.UID, filter.OnlyArchived}

	if filter.ParentID != nil {
		query += " AND parent_id = $3"
		args = append(args, *filter.ParentID)
	} else {
		query += " AND parent_id IS NULL"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find folders: %w", err)
	}
	defer rows.Close()

	var folders []models.TreeItem
	for rows.Next() {
		var folder models.TreeItem
		err := rows.Scan(
			&folder.TreeItemID,
			&folder.UID,
			&folder.Name,
			&folder.ParentID,
			&folder.FileCollectionID,
			&folder.MatterID,
			&folder.Description,
			&folder.IsArchived,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folder.Type = models.TypeFolder
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// GetByID retrieves a folder by id and owner.
func (r *PostgresFolderRepository) GetByID(ctx context.Context, uid, id string) (*models.TreeItem, error) {
	query := fmt.Sprintf(`
		SELECT tree_item_id, uid, name, parent_id, file_collection_id, matter_id, description, is_archived, created_at, updated_at
		FROM %s
		WHERE tree_item_id = $1 AND uid = $2
	`, r.tables.Folders)

	var folder models.TreeItem
	err := r.pool.QueryRow(ctx, query, id, uid).Scan(
		&folder.TreeItemID,
		&folder.UID,
		&folder.Name,
		&folder.ParentID,
		&folder.FileCollectionID,
		&folder.MatterID,
		&folder.Description,
		&folder.IsArchived,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	folder.Type = models.TypeFolder
	return &folder, nil
}

// Update applies a partial-field merge and returns the modified row count.
// No-op fields are left out of the SET clause entirely.
func (r *PostgresFolderRepository) Update(ctx context.Context, uid, id string, upd repositories.FolderUpdate) (int64, error) {
	sets := []string{"updated_at = $1"}
	args := []interface{}{time.Now()}

	appendSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		appendSet("name", *upd.Name)
	}
	if upd.MatterID != nil {
		appendSet("matter_id", *upd.MatterID)
	}
	if upd.Description.Present {
		appendSet("description", upd.Description.Value)
	}
	if upd.IsArchived != nil {
		appendSet("is_archived", *upd.IsArchived)
	}

	args = append(args, id, uid)
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE tree_item_id = $%d AND uid = $%d
	`, r.tables.Folders, joinSets(sets), len(args)-1, len(args))

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update folder: %w", err)
	}

	return result.RowsAffected(), nil
}

// Delete removes a folder row and returns the deleted row count so callers
// can detect "not found" without a separate existence check.
func (r *PostgresFolderRepository) Delete(ctx context.Context, uid, id string) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE tree_item_id = $1 AND uid = $2
	`, r.tables.Folders)

	result, err := r.pool.Exec(ctx, query, id, uid)
	if err != nil {
		return 0, fmt.Errorf("delete folder: %w", err)
	}

	return result.RowsAffected(), nil
}
