package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wtg/vaultsync/internal/common"
	"github.com/wtg/vaultsync/internal/dbx"
	"github.com/wtg/vaultsync/internal/server/models"
)

// PostgresRepository implements customer storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const customerColumns = `id, name, email, company, version, updated_at, deleted_at, updated_by_id`

func scanCustomer(row interface{ Scan(...any) error }) (models.Customer, error) {
	var c models.Customer
	var company, updatedBy sql.NullString
	var deletedAt sql.NullInt64
	err := row.Scan(&c.ID, &c.Name, &c.Email, &company, &c.Version, &c.UpdatedAt, &deletedAt, &updatedBy)
	if err != nil {
		return models.Customer{}, err
	}
	c.Company = company.String
	c.UpdatedByID = updatedBy.String
	if deletedAt.Valid {
		v := deletedAt.Int64
		c.DeletedAt = &v
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE deleted_at IS NULL ORDER BY updated_at DESC`
	return r.query(ctx, query)
}

func (r *PostgresRepository) UpdatedSince(ctx context.Context, since int64) ([]models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE updated_at > $1 ORDER BY updated_at ASC`
	return r.query(ctx, query, since)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]models.Customer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select customers: %w", err)
	}
	defer rows.Close()

	var result []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Customer{}, common.ErrNotFound
		}
		return models.Customer{}, fmt.Errorf("failed to select customer: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c models.Customer) error {
	query := `
		INSERT INTO customers (id, name, email, company, version, updated_at, deleted_at, updated_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, nullString(c.Company), c.Version, c.UpdatedAt, nullInt64(c.DeletedAt), nullString(c.UpdatedByID))
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, c models.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, email = $3, company = $4, version = $5, updated_at = $6, deleted_at = $7, updated_by_id = $8
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, nullString(c.Company), c.Version, c.UpdatedAt, nullInt64(c.DeletedAt), nullString(c.UpdatedByID))
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
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
