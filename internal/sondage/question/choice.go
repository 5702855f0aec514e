package question

import (
	"encoding/json"
	"strings"

	"sondage-backend/internal/sondage/shared"

	"github.com/google/uuid"
)

// Choice is a response proposal as seen by answer validation.
type Choice struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type SingleChoice struct {
	question Question
	Choices  []Choice
}

func NewSingleChoice(q Question, choices []Choice) SingleChoice {
	return SingleChoice{
		question: q,
		Choices:  choices,
	}
}

func (s SingleChoice) Question() Question {
	return s.question
}

func (s SingleChoice) SondageID() uuid.UUID {
	return s.question.SondageID
}

func (s SingleChoice) Validate(rawValue json.RawMessage) error {
	_, err := s.DecodeRequest(rawValue)
	return err
}

func (s SingleChoice) DecodeRequest(rawValue json.RawMessage) (any, error) {
	if isEmptyValue(rawValue) {
		return nil, ErrEmptyAnswer{QuestionID: s.question.ID.String()}
	}

	proposalID, err := decodeProposalID(rawValue)
	if err != nil {
		return nil, ErrInvalidValueFormat{
			QuestionID: s.question.ID.String(),
			Message:    err.Error(),
		}
	}

	if findChoiceByID(s.Choices, proposalID) == nil {
		return nil, ErrInvalidChoiceID{
			QuestionID: s.question.ID.String(),
			ProposalID: proposalID.String(),
		}
	}

	return shared.ChoiceAnswer{ProposalID: proposalID}, nil
}

func (s SingleChoice) DisplayValue(answer any) (string, error) {
	choiceAnswer, ok := answer.(shared.ChoiceAnswer)
	if !ok {
		return "", ErrInvalidValueFormat{
			QuestionID: s.question.ID.String(),
			Message:    "expected a single choice answer",
		}
	}

	choice := findChoiceByID(s.Choices, choiceAnswer.ProposalID)
	if choice == nil {
		return choiceAnswer.ProposalID.String(), nil
	}
	return choice.Title, nil
}

type MultiChoice struct {
	question Question
	Choices  []Choice
}

func NewMultiChoice(q Question, choices []Choice) MultiChoice {
	return MultiChoice{
		question: q,
		Choices:  choices,
	}
}

func (m MultiChoice) Question() Question {
	return m.question
}

func (m MultiChoice) SondageID() uuid.UUID {
	return m.question.SondageID
}

func (m MultiChoice) Validate(rawValue json.RawMessage) error {
	_, err := m.DecodeRequest(rawValue)
	return err
}

func (m MultiChoice) DecodeRequest(rawValue json.RawMessage) (any, error) {
	if isEmptyValue(rawValue) {
		return nil, ErrEmptyAnswer{QuestionID: m.question.ID.String()}
	}

	var idStrings []string
	err := json.Unmarshal(rawValue, &idStrings)
	if err != nil {
		return nil, ErrInvalidValueFormat{
			QuestionID: m.question.ID.String(),
			Message:    "multiple choice value must be a list of proposal IDs",
		}
	}

	if len(idStrings) == 0 {
		return nil, ErrEmptyAnswer{QuestionID: m.question.ID.String()}
	}

	proposalIDs := make([]uuid.UUID, 0, len(idStrings))
	for _, idStr := range idStrings {
		idStr = strings.TrimSpace(idStr)
		proposalID, err := uuid.Parse(idStr)
		if err != nil {
			return nil, ErrInvalidValueFormat{
				QuestionID: m.question.ID.String(),
				Message:    "invalid proposal ID format: " + idStr,
			}
		}

		if findChoiceByID(m.Choices, proposalID) == nil {
			return nil, ErrInvalidChoiceID{
				QuestionID: m.question.ID.String(),
				ProposalID: proposalID.String(),
			}
		}

		proposalIDs = append(proposalIDs, proposalID)
	}

	return shared.MultiChoiceAnswer{ProposalIDs: proposalIDs}, nil
}

func (m MultiChoice) DisplayValue(answer any) (string, error) {
	multiAnswer, ok := answer.(shared.MultiChoiceAnswer)
	if !ok {
		return "", ErrInvalidValueFormat{
			QuestionID: m.question.ID.String(),
			Message:    "expected a multiple choice answer",
		}
	}

	if len(multiAnswer.ProposalIDs) == 0 {
		return "", nil
	}

	titles := make([]string, len(multiAnswer.ProposalIDs))
	for i, proposalID := range multiAnswer.ProposalIDs {
		choice := findChoiceByID(m.Choices, proposalID)
		if choice == nil {
			titles[i] = proposalID.String()
			continue
		}
		titles[i] = choice.Title
	}
	return strings.Join(titles, ", "), nil
}

func findChoiceByID(choices []Choice, proposalID uuid.UUID) *Choice {
	for _, choice := range choices {
		if choice.ID == proposalID {
			return &choice
		}
	}
	return nil
}

// decodeProposalID accepts a plain JSON string, or a one-element list for
// clients that always send lists.
func decodeProposalID(rawValue json.RawMessage) (uuid.UUID, error) {
	var idStr string
	if err := json.Unmarshal(rawValue, &idStr); err == nil {
		return uuid.Parse(strings.TrimSpace(idStr))
	}

	var idStrings []string
	if err := json.Unmarshal(rawValue, &idStrings); err == nil && len(idStrings) == 1 {
		return uuid.Parse(strings.TrimSpace(idStrings[0]))
	}

	return uuid.Nil, errSingleChoiceShape
}
