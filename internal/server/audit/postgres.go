package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wtg/vaultsync/internal/dbx"
	"github.com/wtg/vaultsync/internal/server/models"
)

// PostgresRepository implements audit storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, entry models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, entity_id, entity_type, action, details, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	userID := sql.NullString{String: entry.UserID, Valid: entry.UserID != ""}
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.EntityID, entry.EntityType, entry.Action, entry.Details, userID, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]models.AuditLog, error) {
	query := `
		SELECT id, entity_id, entity_type, action, details, user_id, created_at
		FROM audit_logs ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select audit entries: %w", err)
	}
	defer rows.Close()

	var result []models.AuditLog
	for rows.Next() {
		var entry models.AuditLog
		var userID sql.NullString
		if err := rows.Scan(&entry.ID, &entry.EntityID, &entry.EntityType, &entry.Action, &entry.Details, &userID, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.UserID = userID.String
		result = append(result, entry)
	}
	return result, rows.Err()
}
