package question

// AnswerType is the closed enumeration of answer kinds. The numeric codes are
// wire-stable and referenced by clients, do not renumber.
type AnswerType int32

const (
	AnswerTypeSingleChoice AnswerType = 0
	AnswerTypeMultiChoice  AnswerType = 1
	AnswerTypeFreeText     AnswerType = 2
	AnswerTypeNumber       AnswerType = 3
)

// Known reports whether the code belongs to the enumeration. A stored question
// with an unknown code is a data-integrity fault, not a submission error.
func (t AnswerType) Known() bool {
	return t >= AnswerTypeSingleChoice && t <= AnswerTypeNumber
}

// HasProposals reports whether the type carries response proposals.
func (t AnswerType) HasProposals() bool {
	return t == AnswerTypeSingleChoice || t == AnswerTypeMultiChoice
}

func (t AnswerType) String() string {
	switch t {
	case AnswerTypeSingleChoice:
		return "single_choice"
	case AnswerTypeMultiChoice:
		return "multi_choice"
	case AnswerTypeFreeText:
		return "free_text"
	case AnswerTypeNumber:
		return "number"
	default:
		return "unknown"
	}
}
