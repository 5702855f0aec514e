package shared

import "github.com/google/uuid"

// ChoiceAnswer represents the normalized value of a single choice answer.
type ChoiceAnswer struct {
	ProposalID uuid.UUID `json:"proposalId"`
}

// MultiChoiceAnswer represents the normalized value of a multiple choice answer.
type MultiChoiceAnswer struct {
	ProposalIDs []uuid.UUID `json:"proposalIds"`
}

// TextAnswer represents the normalized value of a free text answer.
type TextAnswer struct {
	Value string `json:"value"`
}

// NumberAnswer represents the normalized value of a numeric answer.
type NumberAnswer struct {
	Value int64 `json:"value"`
}
