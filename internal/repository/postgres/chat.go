package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"matterdesk/internal/domain"
	"matterdesk/internal/domain/models"
	"matterdesk/internal/domain/repositories"
)

// PostgresChatRepository implements the ChatRepository interface
type PostgresChatRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewChatRepository creates a new chat repository
func NewChatRepository(config *RepositoryConfig) repositories.ChatRepository {
	return &PostgresChatRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Insert creates a new chat row, mapping duplicate-key violations to
// domain.ErrDuplicateEntry.
func (r *PostgresChatRepository) Insert(ctx context.Context, chat *models.TreeItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (tree_item_id, uid, name, parent_id, file_collection_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Chats)

	_, err := r.pool.Exec(ctx, query,
		chat.TreeItemID,
		chat.UID,
		chat.Name,
		chat.ParentID,
		chat.FileCollectionID,
		chat.CreatedAt,
		chat.UpdatedAt,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("chat %s: %w", chat.TreeItemID, domain.ErrDuplicateEntry)
		}
		return fmt.Errorf("insert chat: %w", err)
	}

	return nil
}

// Find lists chats for an owner. With no parent in the filter only root-level
// chats are returned; rows with a parent require an explicit parent filter.
func (r *PostgresChatRepository) Find(ctx context.Context, filter repositories.ChatFilter) ([]models.TreeItem, error) {
	query := fmt.Sprintf(`
		SELECT tree_item_id, uid, name, parent_id, file_collection_id, created_at, updated_at
		FROM %s
		WHERE uid = $1
	`, r.tables.Chats)
	args := []interface{}{filter.UID}

	if filter.ParentID != nil {
		query += " AND parent_id = $2"
		args = append(args, *filter.ParentID)
	} else {
		query += " AND parent_id IS NULL"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find chats: %w", err)
	}
	defer rows.Close()

	var chats []models.TreeItem
	for rows.Next() {
		var chat models.TreeItem
		err := rows.Scan(
			&chat.TreeItemID,
			&chat.UID,
			&chat.Name,
			&chat.ParentID,
			&chat.FileCollectionID,
			&chat.CreatedAt,
			&chat.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chat.Type = models.TypeChat
		chats = append(chats, chat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}

	return chats, nil
}

// Update applies a partial-field merge and returns the modified row count.
func (r *PostgresChatRepository) Update(ctx context.Context, uid, id string, upd repositories.ChatUpdate) (int64, error) {
	sets := []string{"updated_at = $1"}
	args := []interface{}{time.Now()}

	if upd.Name != nil {
		args = append(args, *upd.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if upd.ParentID.Present {
		args = append(args, upd.ParentID.Value)
		sets = append(sets, fmt.Sprintf("parent_id = $%d", len(args)))
	}

	args = append(args, id, uid)
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE tree_item_id = $%d AND uid = $%d
	`, r.tables.Chats, joinSets(sets), len(args)-1, len(args))

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update chat: %w", err)
	}

	return result.RowsAffected(), nil
}

// Delete removes a chat row and returns the deleted row count.
func (r *PostgresChatRepository) Delete(ctx context.Context, uid, id string) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE tree_item_id = $1 AND uid = $2
	`, r.tables.Chats)

	result, err := r.pool.Exec(ctx, query, id, uid)
	if err != nil {
		return 0, fmt.Errorf("delete chat: %w", err)
	}

	return result.RowsAffected(), nil
}

func joinSets(sets []string) string {
	return strings.Join(sets, ", ")
}
