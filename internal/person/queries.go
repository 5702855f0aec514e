package person

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

type Person struct {
	ID          uuid.UUID
	Email       string
	PhoneNumber string
	FirstName   string
	LastName    string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

const createPerson = `
INSERT INTO person (email, phone_number, first_name, last_name)
VALUES ($1, $2, $3, $4)
RETURNING id, email, phone_number, first_name, last_name, created_at, updated_at
`

type CreateParams struct {
	Email       string
	PhoneNumber string
	FirstName   string
	LastName    string
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (Person, error) {
	row := q.db.QueryRow(ctx, createPerson, arg.Email, arg.PhoneNumber, arg.FirstName, arg.LastName)
	var i Person
	err := row.Scan(&i.ID, &i.Email, &i.PhoneNumber, &i.FirstName, &i.LastName, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const getPersonByID = `
SELECT id, email, phone_number, first_name, last_name, created_at, updated_at
FROM person
WHERE id = $1
`

func (q *Queries) GetByID(ctx context.Context, id uuid.UUID) (Person, error) {
	row := q.db.QueryRow(ctx, getPersonByID, id)
	var i Person
	err := row.Scan(&i.ID, &i.Email, &i.PhoneNumber, &i.FirstName, &i.LastName, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const findPersonByEmail = `
SELECT id, email, phone_number, first_name, last_name, created_at, updated_at
FROM person
WHERE email = $1
ORDER BY created_at
LIMIT 1
`

func (q *Queries) FindByEmail(ctx context.Context, email string) (Person, error) {
	row := q.db.QueryRow(ctx, findPersonByEmail, email)
	var i Person
	err := row.Scan(&i.ID, &i.Email, &i.PhoneNumber, &i.FirstName, &i.LastName, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const findPersonByPhoneNumber = `
SELECT id, email, phone_number, first_name, last_name, created_at, updated_at
FROM person
WHERE phone_number = $1
ORDER BY created_at
LIMIT 1
`

func (q *Queries) FindByPhoneNumber(ctx context.Context, phoneNumber string) (Person, error) {
	row := q.db.QueryRow(ctx, findPersonByPhoneNumber, phoneNumber)
	var i Person
	err := row.Scan(&i.ID, &i.Email, &i.PhoneNumber, &i.FirstName, &i.LastName, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}
