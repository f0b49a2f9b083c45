package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wtg/vaultsync/internal/common"
	"github.com/wtg/vaultsync/internal/dbx"
	"github.com/wtg/vaultsync/internal/server/models"
)

// PostgresRepository implements credential storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const credentialColumns = `id, customer_id, title, username, encrypted_secret, iv, url, notes, version, updated_at, deleted_at, updated_by_id`

func scanCredential(row interface{ Scan(...any) error }) (models.Credential, error) {
	var c models.Credential
	var url, notes, updatedBy sql.NullString
	var deletedAt sql.NullInt64
	err := row.Scan(&c.ID, &c.CustomerID, &c.Title, &c.Username, &c.EncryptedSecret, &c.IV,
		&url, &notes, &c.Version, &c.UpdatedAt, &deletedAt, &updatedBy)
	if err != nil {
		return models.Credential{}, err
	}
	c.URL = url.String
	c.Notes = notes.String
	c.UpdatedByID = updatedBy.String
	if deletedAt.Valid {
		v := deletedAt.Int64
		c.DeletedAt = &v
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials WHERE deleted_at IS NULL ORDER BY updated_at DESC`
	return r.query(ctx, query)
}

func (r *PostgresRepository) UpdatedSince(ctx context.Context, since int64) ([]models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials WHERE updated_at > $1 ORDER BY updated_at ASC`
	return r.query(ctx, query, since)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]models.Credential, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select credentials: %w", err)
	}
	defer rows.Close()

	var result []models.Credential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials WHERE id = $1`
	c, err := scanCredential(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Credential{}, common.ErrNotFound
		}
		return models.Credential{}, fmt.Errorf("failed to select credential: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c models.Credential) error {
	query := `
		INSERT INTO credentials (id, customer_id, title, username, encrypted_secret, iv, url, notes, version, updated_at, deleted_at, updated_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.CustomerID, c.Title, c.Username, c.EncryptedSecret, c.IV,
		nullString(c.URL), nullString(c.Notes), c.Version, c.UpdatedAt, nullInt64(c.DeletedAt), nullString(c.UpdatedByID))
	if err != nil {
		return fmt.Errorf("failed to insert credential: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, c models.Credential) error {
	query := `
		UPDATE credentials
		SET customer_id = $2, title = $3, username = $4, encrypted_secret = $5, iv = $6,
		    url = $7, notes = $8, version = $9, updated_at = $10, deleted_at = $11, updated_by_id = $12
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		c.ID, c.CustomerID, c.Title, c.Username, c.EncryptedSecret, c.IV,
		nullString(c.URL), nullString(c.Notes), c.Version, c.UpdatedAt, nullInt64(c.DeletedAt), nullString(c.UpdatedByID))
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
