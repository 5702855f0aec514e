package response

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

type Response struct {
	ID        uuid.UUID
	SondageID uuid.UUID
	PersonID  uuid.UUID
	CreatedAt pgtype.Timestamptz
}

// QuestionAnswer carries one value slot per answer type; exactly one of the
// four is non-null in a well-formed row.
type QuestionAnswer struct {
	ID              uuid.UUID
	ResponseID      uuid.UUID
	QuestionID      uuid.UUID
	ChoiceResponse  pgtype.UUID
	ChoicesResponse []byte
	TextResponse    pgtype.Text
	NumberResponse  pgtype.Int8
}

const createResponse = `
INSERT INTO response (sondage_id, person_id)
VALUES ($1, $2)
RETURNING id, sondage_id, person_id, created_at
`

type CreateParams struct {
	SondageID uuid.UUID
	PersonID  uuid.UUID
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (Response, error) {
	row := q.db.QueryRow(ctx, createResponse, arg.SondageID, arg.PersonID)
	var i Response
	err := row.Scan(&i.ID, &i.SondageID, &i.PersonID, &i.CreatedAt)
	return i, err
}

const createAnswer = `
INSERT INTO question_answer (response_id, question_id, choice_response, choices_response, text_response, number_response)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, response_id, question_id, choice_response, choices_response, text_response, number_response
`

type CreateAnswerParams struct {
	ResponseID      uuid.UUID
	QuestionID      uuid.UUID
	ChoiceResponse  pgtype.UUID
	ChoicesResponse []byte
	TextResponse    pgtype.Text
	NumberResponse  pgtype.Int8
}

func (q *Queries) CreateAnswer(ctx context.Context, arg CreateAnswerParams) (QuestionAnswer, error) {
	row := q.db.QueryRow(ctx, createAnswer,
		arg.ResponseID,
		arg.QuestionID,
		arg.ChoiceResponse,
		arg.ChoicesResponse,
		arg.TextResponse,
		arg.NumberResponse,
	)
	var i QuestionAnswer
	err := row.Scan(&i.ID, &i.ResponseID, &i.QuestionID, &i.ChoiceResponse, &i.ChoicesResponse, &i.TextResponse, &i.NumberResponse)
	return i, err
}

const getResponseByID = `
SELECT id, sondage_id, person_id, created_at
FROM response
WHERE id = $1
`

func (q *Queries) GetByID(ctx context.Context, id uuid.UUID) (Response, error) {
	row := q.db.QueryRow(ctx, getResponseByID, id)
	var i Response
	err := row.Scan(&i.ID, &i.SondageID, &i.PersonID, &i.CreatedAt)
	return i, err
}

const deleteResponse = `
DELETE FROM response WHERE id = $1
`

func (q *Queries) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteResponse, id)
	return err
}

const listResponsesBySondageID = `
SELECT id, sondage_id, person_id, created_at
FROM response
WHERE sondage_id = $1
ORDER BY created_at
`

func (q *Queries) ListBySondageID(ctx context.Context, sondageID uuid.UUID) ([]Response, error) {
	rows, err := q.db.Query(ctx, listResponsesBySondageID, sondageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Response
	for rows.Next() {
		var i Response
		if err := rows.Scan(&i.ID, &i.SondageID, &i.PersonID, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const existsByPersonAndSondage = `
SELECT EXISTS(
	SELECT 1 FROM response WHERE person_id = $1 AND sondage_id = $2
)
`

type ExistsByPersonAndSondageParams struct {
	PersonID  uuid.UUID
	SondageID uuid.UUID
}

func (q *Queries) ExistsByPersonAndSondage(ctx context.Context, arg ExistsByPersonAndSondageParams) (bool, error) {
	row := q.db.QueryRow(ctx, existsByPersonAndSondage, arg.PersonID, arg.SondageID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listAnswersByQuestionID = `
SELECT id, response_id, question_id, choice_response, choices_response, text_response, number_response
FROM question_answer
WHERE question_id = $1
ORDER BY id
`

func (q *Queries) ListAnswersByQuestionID(ctx context.Context, questionID uuid.UUID) ([]QuestionAnswer, error) {
	rows, err := q.db.Query(ctx, listAnswersByQuestionID, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QuestionAnswer
	for rows.Next() {
		var i QuestionAnswer
		if err := rows.Scan(&i.ID, &i.ResponseID, &i.QuestionID, &i.ChoiceResponse, &i.ChoicesResponse, &i.TextResponse, &i.NumberResponse); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listAnswersByResponseID = `
SELECT id, response_id, question_id, choice_response, choices_response, text_response, number_response
FROM question_answer
WHERE response_id = $1
ORDER BY id
`

func (q *Queries) ListAnswersByResponseID(ctx context.Context, responseID uuid.UUID) ([]QuestionAnswer, error) {
	rows, err := q.db.Query(ctx, listAnswersByResponseID, responseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QuestionAnswer
	for rows.Next() {
		var i QuestionAnswer
		if err := rows.Scan(&i.ID, &i.ResponseID, &i.QuestionID, &i.ChoiceResponse, &i.ChoicesResponse, &i.TextResponse, &i.NumberResponse); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listAnswersBySondageID = `
SELECT qa.id, qa.response_id, qa.question_id, qa.choice_response, qa.choices_response, qa.text_response, qa.number_response
FROM question_answer qa
JOIN response r ON r.id = qa.response_id
WHERE r.sondage_id = $1
ORDER BY qa.id
`

func (q *Queries) ListAnswersBySondageID(ctx context.Context, sondageID uuid.UUID) ([]QuestionAnswer, error) {
	rows, err := q.db.Query(ctx, listAnswersBySondageID, sondageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QuestionAnswer
	for rows.Next() {
		var i QuestionAnswer
		if err := rows.Scan(&i.ID, &i.ResponseID, &i.QuestionID, &i.ChoiceResponse, &i.ChoicesResponse, &i.TextResponse, &i.NumberResponse); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
