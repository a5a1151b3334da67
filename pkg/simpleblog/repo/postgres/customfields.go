package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

const fieldColumns = `id, scope, owner_id, key, value, title, last_updated`

func scanField(row pgx.Row) (*simpleblog.CustomField, error) {
	var f simpleblog.CustomField
	err := row.Scan(&f.ID, &f.Scope, &f.OwnerID, &f.Key, &f.Value, &f.Title, &f.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleblog.ErrFieldNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (u *unitOfWork) GetCustomField(ctx context.Context, scope simpleblog.FieldScope, ownerID int64, key string) (*simpleblog.CustomField, error) {
	query := `SELECT ` + fieldColumns + ` FROM custom_fields
		WHERE scope = $1 AND owner_id = $2 AND key = $3`
	return scanField(u.db.QueryRow(ctx, query, scope, ownerID, key))
}

func (u *unitOfWork) CreateCustomField(ctx context.Context, field *simpleblog.CustomField) error {
	query := `
		INSERT INTO custom_fields (scope, owner_id, key, value, title, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := u.db.QueryRow(ctx, query,
		field.Scope, field.OwnerID, field.Key, field.Value,
		field.Title, field.LastUpdated).Scan(&field.ID)
	if err != nil {
		return mapError("create custom field", err)
	}
	return nil
}

func (u *unitOfWork) UpdateCustomField(ctx context.Context, field *simpleblog.CustomField) error {
	query := `
		UPDATE custom_fields SET
			scope = $2, owner_id = $3, key = $4, value = $5, title = $6, last_updated = $7
		WHERE id = $1`

	tag, err := u.db.Exec(ctx, query,
		field.ID, field.Scope, field.OwnerID, field.Key, field.Value,
		field.Title, field.LastUpdated)
	if err != nil {
		return mapError("update custom field", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrFieldNotFound
	}
	return nil
}

func (u *unitOfWork) ListCustomFields(ctx context.Context, scope simpleblog.FieldScope, ownerID int64) ([]*simpleblog.CustomField, error) {
	query := `SELECT ` + fieldColumns + ` FROM custom_fields
		WHERE scope = $1 AND owner_id = $2
		ORDER BY LOWER(title), id`

	rows, err := u.db.Query(ctx, query, scope, ownerID)
	if err != nil {
		return nil, mapError("list custom fields", err)
	}
	defer rows.Close()

	var fields []*simpleblog.CustomField
	for rows.Next() {
		field, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, rows.Err()
}
