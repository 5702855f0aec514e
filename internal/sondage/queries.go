package sondage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

type Sondage struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

const createSondage = `
INSERT INTO sondage (name, description)
VALUES ($1, $2)
RETURNING id, name, description, created_at, updated_at
`

type CreateParams struct {
	Name        string
	Description string
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (Sondage, error) {
	row := q.db.QueryRow(ctx, createSondage, arg.Name, arg.Description)
	var i Sondage
	err := row.Scan(&i.ID, &i.Name, &i.Description, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const updateSondage = `
UPDATE sondage
SET name = $2, description = $3, updated_at = now()
WHERE id = $1
RETURNING id, name, description, created_at, updated_at
`

type UpdateParams struct {
	ID          uuid.UUID
	Name        string
	Description string
}

func (q *Queries) Update(ctx context.Context, arg UpdateParams) (Sondage, error) {
	row := q.db.QueryRow(ctx, updateSondage, arg.ID, arg.Name, arg.Description)
	var i Sondage
	err := row.Scan(&i.ID, &i.Name, &i.Description, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const deleteSondage = `
DELETE FROM sondage WHERE id = $1
`

func (q *Queries) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteSondage, id)
	return err
}

const getSondageByID = `
SELECT id, name, description, created_at, updated_at
FROM sondage
WHERE id = $1
`

func (q *Queries) GetByID(ctx context.Context, id uuid.UUID) (Sondage, error) {
	row := q.db.QueryRow(ctx, getSondageByID, id)
	var i Sondage
	err := row.Scan(&i.ID, &i.Name, &i.Description, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const listSondages = `
SELECT id, name, description, created_at, updated_at
FROM sondage
ORDER BY created_at
`

func (q *Queries) List(ctx context.Context) ([]Sondage, error) {
	rows, err := q.db.Query(ctx, listSondages)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Sondage
	for rows.Next() {
		var i Sondage
		if err := rows.Scan(&i.ID, &i.Name, &i.Description, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const sondageExists = `
SELECT EXISTS(SELECT 1 FROM sondage WHERE id = $1)
`

func (q *Queries) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	row := q.db.QueryRow(ctx, sondageExists, id)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}
