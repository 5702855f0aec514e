package proposal

import (
	"fmt"

	"sondage-backend/internal"
)

type ErrNotChoiceQuestion struct {
	QuestionID string
}

func (e ErrNotChoiceQuestion) Error() string {
	return fmt.Sprintf("question %s does not take proposals", e.QuestionID)
}

func (e ErrNotChoiceQuestion) Unwrap() error {
	return internal.ErrProposalNotChoiceQuestion
}
