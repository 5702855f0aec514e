package question

import (
	"encoding/json"
	"strconv"

	"sondage-backend/internal/sondage/shared"

	"github.com/google/uuid"
)

type Number struct {
	question Question
}

func NewNumber(q Question) Number {
	return Number{question: q}
}

func (n Number) Question() Question {
	return n.question
}

func (n Number) SondageID() uuid.UUID {
	return n.question.SondageID
}

func (n Number) Validate(rawValue json.RawMessage) error {
	_, err := n.DecodeRequest(rawValue)
	return err
}

func (n Number) DecodeRequest(rawValue json.RawMessage) (any, error) {
	if isEmptyValue(rawValue) {
		return nil, ErrEmptyAnswer{QuestionID: n.question.ID.String()}
	}

	value, err := parseIntegerValue(rawValue)
	if err != nil {
		return nil, ErrInvalidValueFormat{
			QuestionID: n.question.ID.String(),
			Message:    "number value must be integer-coercible",
		}
	}

	return shared.NumberAnswer{Value: value}, nil
}

func (n Number) DisplayValue(answer any) (string, error) {
	numberAnswer, ok := answer.(shared.NumberAnswer)
	if !ok {
		return "", ErrInvalidValueFormat{
			QuestionID: n.question.ID.String(),
			Message:    "expected a number answer",
		}
	}

	return strconv.FormatInt(numberAnswer.Value, 10), nil
}
