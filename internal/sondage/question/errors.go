package question

import (
	"fmt"

	"sondage-backend/internal"
)

type ErrInvalidChoiceID struct {
	QuestionID string
	ProposalID string
}

func (e ErrInvalidChoiceID) Error() string {
	return fmt.Sprintf("proposal ID %s not found for question %s", e.ProposalID, e.QuestionID)
}

func (e ErrInvalidChoiceID) Unwrap() error {
	return internal.ErrValidationFailed
}

type ErrInvalidValueFormat struct {
	QuestionID string
	Message    string
}

func (e ErrInvalidValueFormat) Error() string {
	return fmt.Sprintf("invalid value for question %s: %s", e.QuestionID, e.Message)
}

func (e ErrInvalidValueFormat) Unwrap() error {
	return internal.ErrValidationFailed
}

type ErrEmptyAnswer struct {
	QuestionID string
}

func (e ErrEmptyAnswer) Error() string {
	return fmt.Sprintf("empty answer for question %s", e.QuestionID)
}

func (e ErrEmptyAnswer) Unwrap() error {
	return internal.ErrValidationFailed
}

// ErrUnsupportedAnswerType is returned when a stored question carries a code
// outside the enumeration. This is a data-integrity fault, not a caller error.
type ErrUnsupportedAnswerType struct {
	QuestionID string
	Type       AnswerType
}

func (e ErrUnsupportedAnswerType) Error() string {
	return fmt.Sprintf("unsupported answer type %d for question %s", e.Type, e.QuestionID)
}

func (e ErrUnsupportedAnswerType) Unwrap() error {
	return internal.ErrInternalServerError
}
