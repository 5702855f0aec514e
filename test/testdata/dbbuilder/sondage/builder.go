package sondagebuilder

import (
	"context"
	"testing"

	"sondage-backend/internal/person"
	"sondage-backend/internal/sondage"
	"sondage-backend/internal/sondage/proposal"
	"sondage-backend/internal/sondage/question"
	"sondage-backend/test/testdata"
	"sondage-backend/test/testdata/dbbuilder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Builder seeds survey fixtures for tests that run against a real
// database.
type Builder struct {
	t  *testing.T
	db dbbuilder.DBTX
}

func New(t *testing.T, db dbbuilder.DBTX) *Builder {
	return &Builder{t: t, db: db}
}

func (b Builder) Create(opts ...Option) sondage.Sondage {
	p := &FactoryParams{
		Name:        testdata.RandomName(),
		Description: testdata.RandomDescription(),
	}
	for _, opt := range opts {
		opt(p)
	}

	row, err := sondage.New(b.db).Create(context.Background(), sondage.CreateParams{
		Name:        p.Name,
		Description: p.Description,
	})
	require.NoError(b.t, err)

	return row
}

func (b Builder) CreateQuestion(sondageID uuid.UUID, opts ...Option) question.Question {
	p := &FactoryParams{
		Title:      testdata.RandomQuestionTitle(),
		AnswerType: question.AnswerTypeFreeText,
	}
	for _, opt := range opts {
		opt(p)
	}

	row, err := question.New(b.db).Create(context.Background(), question.CreateParams{
		SondageID:  sondageID,
		Title:      p.Title,
		AnswerType: p.AnswerType,
	})
	require.NoError(b.t, err)

	return row
}

func (b Builder) CreateProposal(questionID uuid.UUID, opts ...Option) proposal.Proposal {
	p := &FactoryParams{
		Title: testdata.RandomName(),
	}
	for _, opt := range opts {
		opt(p)
	}

	row, err := proposal.New(b.db).Create(context.Background(), proposal.CreateParams{
		QuestionID: questionID,
		Title:      p.Title,
	})
	require.NoError(b.t, err)

	return row
}

func (b Builder) CreatePerson(opts ...Option) person.Person {
	p := &FactoryParams{
		Email:       testdata.RandomEmail(),
		PhoneNumber: testdata.RandomPhoneNumber(),
		FirstName:   testdata.RandomFirstName(),
		LastName:    testdata.RandomLastName(),
	}
	for _, opt := range opts {
		opt(p)
	}

	row, err := person.New(b.db).Create(context.Background(), person.CreateParams{
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
	})
	require.NoError(b.t, err)

	return row
}
