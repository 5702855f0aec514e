package proposal

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

type Proposal struct {
	ID         uuid.UUID
	QuestionID uuid.UUID
	Title      string
	CreatedAt  pgtype.Timestamptz
	UpdatedAt  pgtype.Timestamptz
}

const createProposal = `
INSERT INTO response_proposal (question_id, title)
VALUES ($1, $2)
RETURNING id, question_id, title, created_at, updated_at
`

type CreateParams struct {
	QuestionID uuid.UUID
	Title      string
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (Proposal, error) {
	row := q.db.QueryRow(ctx, createProposal, arg.QuestionID, arg.Title)
	var i Proposal
	err := row.Scan(&i.ID, &i.QuestionID, &i.Title, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const updateProposal = `
UPDATE response_proposal
SET title = $2, updated_at = now()
WHERE id = $1
RETURNING id, question_id, title, created_at, updated_at
`

type UpdateParams struct {
	ID    uuid.UUID
	Title string
}

func (q *Queries) Update(ctx context.Context, arg UpdateParams) (Proposal, error) {
	row := q.db.QueryRow(ctx, updateProposal, arg.ID, arg.Title)
	var i Proposal
	err := row.Scan(&i.ID, &i.QuestionID, &i.Title, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const deleteProposal = `
DELETE FROM response_proposal WHERE id = $1
`

func (q *Queries) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteProposal, id)
	return err
}

const getProposalByID = `
SELECT id, question_id, title, created_at, updated_at
FROM response_proposal
WHERE id = $1
`

func (q *Queries) GetByID(ctx context.Context, id uuid.UUID) (Proposal, error) {
	row := q.db.QueryRow(ctx, getProposalByID, id)
	var i Proposal
	err := row.Scan(&i.ID, &i.QuestionID, &i.Title, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const listProposalsByQuestionID = `
SELECT id, question_id, title, created_at, updated_at
FROM response_proposal
WHERE question_id = $1
ORDER BY created_at
`

func (q *Queries) ListByQuestionID(ctx context.Context, questionID uuid.UUID) ([]Proposal, error) {
	rows, err := q.db.Query(ctx, listProposalsByQuestionID, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Proposal
	for rows.Next() {
		var i Proposal
		if err := rows.Scan(&i.ID, &i.QuestionID, &i.Title, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listProposalsBySondageID = `
SELECT rp.id, rp.question_id, rp.title, rp.created_at, rp.updated_at
FROM response_proposal rp
JOIN question q ON q.id = rp.question_id
WHERE q.sondage_id = $1
ORDER BY rp.created_at
`

func (q *Queries) ListBySondageID(ctx context.Context, sondageID uuid.UUID) ([]Proposal, error) {
	rows, err := q.db.Query(ctx, listProposalsBySondageID, sondageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Proposal
	for rows.Next() {
		var i Proposal
		if err := rows.Scan(&i.ID, &i.QuestionID, &i.Title, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
