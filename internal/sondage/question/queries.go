package question

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

type Question struct {
	ID         uuid.UUID
	SondageID  uuid.UUID
	Title      string
	AnswerType AnswerType
	CreatedAt  pgtype.Timestamptz
	UpdatedAt  pgtype.Timestamptz
}

const createQuestion = `
INSERT INTO question (sondage_id, title, answer_type)
VALUES ($1, $2, $3)
RETURNING id, sondage_id, title, answer_type, created_at, updated_at
`

type CreateParams struct {
	SondageID  uuid.UUID
	Title      string
	AnswerType AnswerType
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (Question, error) {
	row := q.db.QueryRow(ctx, createQuestion, arg.SondageID, arg.Title, arg.AnswerType)
	var i Question
	err := row.Scan(&i.ID, &i.SondageID, &i.Title, &i.AnswerType, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const updateQuestion = `
UPDATE question
SET title = $2, answer_type = $3, updated_at = now()
WHERE id = $1
RETURNING id, sondage_id, title, answer_type, created_at, updated_at
`

type UpdateParams struct {
	ID         uuid.UUID
	Title      string
	AnswerType AnswerType
}

func (q *Queries) Update(ctx context.Context, arg UpdateParams) (Question, error) {
	row := q.db.QueryRow(ctx, updateQuestion, arg.ID, arg.Title, arg.AnswerType)
	var i Question
	err := row.Scan(&i.ID, &i.SondageID, &i.Title, &i.AnswerType, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const deleteQuestion = `
DELETE FROM question WHERE id = $1
`

func (q *Queries) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteQuestion, id)
	return err
}

const getQuestionByID = `
SELECT id, sondage_id, title, answer_type, created_at, updated_at
FROM question
WHERE id = $1
`

func (q *Queries) GetByID(ctx context.Context, id uuid.UUID) (Question, error) {
	row := q.db.QueryRow(ctx, getQuestionByID, id)
	var i Question
	err := row.Scan(&i.ID, &i.SondageID, &i.Title, &i.AnswerType, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const listQuestionsBySondageID = `
SELECT id, sondage_id, title, answer_type, created_at, updated_at
FROM question
WHERE sondage_id = $1
ORDER BY created_at
`

func (q *Queries) ListBySondageID(ctx context.Context, sondageID uuid.UUID) ([]Question, error) {
	rows, err := q.db.Query(ctx, listQuestionsBySondageID, sondageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Question
	for rows.Next() {
		var i Question
		if err := rows.Scan(&i.ID, &i.SondageID, &i.Title, &i.AnswerType, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const questionExists = `
SELECT EXISTS(SELECT 1 FROM question WHERE id = $1)
`

func (q *Queries) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	row := q.db.QueryRow(ctx, questionExists, id)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}
