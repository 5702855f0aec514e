package question

import (
	"encoding/json"

	"sondage-backend/internal/sondage/shared"

	"github.com/google/uuid"
)

const maxFreeTextLength = 10000

type FreeText struct {
	question Question
}

func NewFreeText(q Question) FreeText {
	return FreeText{question: q}
}

func (f FreeText) Question() Question {
	return f.question
}

func (f FreeText) SondageID() uuid.UUID {
	return f.question.SondageID
}

func (f FreeText) Validate(rawValue json.RawMessage) error {
	_, err := f.DecodeRequest(rawValue)
	return err
}

func (f FreeText) DecodeRequest(rawValue json.RawMessage) (any, error) {
	if isEmptyValue(rawValue) {
		return nil, ErrEmptyAnswer{QuestionID: f.question.ID.String()}
	}

	var value string
	if err := json.Unmarshal(rawValue, &value); err != nil {
		return nil, ErrInvalidValueFormat{
			QuestionID: f.question.ID.String(),
			Message:    "free text value must be a string",
		}
	}

	if value == "" {
		return nil, ErrEmptyAnswer{QuestionID: f.question.ID.String()}
	}

	if len(value) > maxFreeTextLength {
		return nil, ErrInvalidValueFormat{
			QuestionID: f.question.ID.String(),
			Message:    "free text value exceeds maximum length",
		}
	}

	return shared.TextAnswer{Value: value}, nil
}

func (f FreeText) DisplayValue(answer any) (string, error) {
	textAnswer, ok := answer.(shared.TextAnswer)
	if !ok {
		return "", ErrInvalidValueFormat{
			QuestionID: f.question.ID.String(),
			Message:    "expected a free text answer",
		}
	}

	return textAnswer.Value, nil
}
