package question

import (
	"errors"
	"testing"

	"sondage-backend/internal/sondage/shared"

	"github.com/google/uuid"
)

func testChoices() []Choice {
	return []Choice{
		{
			ID:    uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			Title: "Option A",
		},
		{
			ID:    uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			Title: "Option B",
		},
		{
			ID:    uuid.MustParse("33333333-3333-3333-3333-333333333333"),
			Title: "Option C",
		},
	}
}

func TestSingleChoice_DecodeRequest(t *testing.T) {
	choices := testChoices()
	sc := NewSingleChoice(Question{ID: uuid.New(), AnswerType: AnswerTypeSingleChoice}, choices)

	tests := []struct {
		name        string
		rawValue    string
		shouldError bool
		validate    func(t *testing.T, result any)
	}{
		{
			name:        "Should decode a plain proposal ID string",
			rawValue:    `"11111111-1111-1111-1111-111111111111"`,
			shouldError: false,
			validate: func(t *testing.T, result any) {
				answer, ok := result.(shared.ChoiceAnswer)
				if !ok {
					t.Fatalf("Expected shared.ChoiceAnswer, got %T", result)
				}
				if answer.ProposalID.String() != "11111111-1111-1111-1111-111111111111" {
					t.Errorf("Expected proposal ID 11111111-1111-1111-1111-111111111111, got %s", answer.ProposalID)
				}
			},
		},
		{
			name:        "Should decode a one-element list",
			rawValue:    `["22222222-2222-2222-2222-222222222222"]`,
			shouldError: false,
			validate: func(t *testing.T, result any) {
				answer := result.(shared.ChoiceAnswer)
				if answer.ProposalID != choices[1].ID {
					t.Errorf("Expected proposal ID %s, got %s", choices[1].ID, answer.ProposalID)
				}
			},
		},
		{
			name:        "Should return error for empty value",
			rawValue:    `""`,
			shouldError: true,
		},
		{
			name:        "Should return error for null",
			rawValue:    `null`,
			shouldError: true,
		},
		{
			name:        "Should return error for multiple selections",
			rawValue:    `["11111111-1111-1111-1111-111111111111", "22222222-2222-2222-2222-222222222222"]`,
			shouldError: true,
		},
		{
			name:        "Should return error for unknown proposal ID",
			rawValue:    `"99999999-9999-9999-9999-999999999999"`,
			shouldError: true,
		},
		{
			name:        "Should return error for non-UUID string",
			rawValue:    `"not-a-uuid"`,
			shouldError: true,
		},
		{
			name:        "Should return error for a number value",
			rawValue:    `42`,
			shouldError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := sc.DecodeRequest([]byte(tc.rawValue))
			if tc.shouldError {
				if err == nil {
					t.Fatalf("Expected error for %s, got none", tc.rawValue)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tc.validate != nil {
				tc.validate(t, result)
			}
		})
	}
}

func TestSingleChoice_DecodeRequest_ErrorKinds(t *testing.T) {
	sc := NewSingleChoice(Question{ID: uuid.New()}, testChoices())

	_, err := sc.DecodeRequest([]byte(`"99999999-9999-9999-9999-999999999999"`))
	var invalidChoice ErrInvalidChoiceID
	if !errors.As(err, &invalidChoice) {
		t.Errorf("Expected ErrInvalidChoiceID for unknown proposal, got %v", err)
	}

	_, err = sc.DecodeRequest([]byte(`null`))
	var empty ErrEmptyAnswer
	if !errors.As(err, &empty) {
		t.Errorf("Expected ErrEmptyAnswer for null, got %v", err)
	}
}

func TestSingleChoice_DisplayValue(t *testing.T) {
	choices := testChoices()
	sc := NewSingleChoice(Question{ID: uuid.New()}, choices)

	display, err := sc.DisplayValue(shared.ChoiceAnswer{ProposalID: choices[0].ID})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if display != "Option A" {
		t.Errorf("Expected 'Option A', got %q", display)
	}

	// Unknown proposal falls back to the raw ID rather than failing.
	orphan := uuid.MustParse("99999999-9999-9999-9999-999999999999")
	display, err = sc.DisplayValue(shared.ChoiceAnswer{ProposalID: orphan})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if display != orphan.String() {
		t.Errorf("Expected %q, got %q", orphan.String(), display)
	}

	if _, err = sc.DisplayValue(shared.TextAnswer{Value: "nope"}); err == nil {
		t.Error("Expected error for mismatched answer kind, got none")
	}
}

func TestMultiChoice_DecodeRequest(t *testing.T) {
	choices := testChoices()
	mc := NewMultiChoice(Question{ID: uuid.New(), AnswerType: AnswerTypeMultiChoice}, choices)

	tests := []struct {
		name        string
		rawValue    string
		shouldError bool
		validate    func(t *testing.T, result any)
	}{
		{
			name:        "Should decode a list of proposal IDs",
			rawValue:    `["11111111-1111-1111-1111-111111111111", "33333333-3333-3333-3333-333333333333"]`,
			shouldError: false,
			validate: func(t *testing.T, result any) {
				answer, ok := result.(shared.MultiChoiceAnswer)
				if !ok {
					t.Fatalf("Expected shared.MultiChoiceAnswer, got %T", result)
				}
				if len(answer.ProposalIDs) != 2 {
					t.Fatalf("Expected 2 proposal IDs, got %d", len(answer.ProposalIDs))
				}
				if answer.ProposalIDs[0] != choices[0].ID || answer.ProposalIDs[1] != choices[2].ID {
					t.Errorf("Unexpected proposal IDs: %v", answer.ProposalIDs)
				}
			},
		},
		{
			name:        "Should decode a single-element list",
			rawValue:    `["22222222-2222-2222-2222-222222222222"]`,
			shouldError: false,
			validate: func(t *testing.T, result any) {
				answer := result.(shared.MultiChoiceAnswer)
				if len(answer.ProposalIDs) != 1 {
					t.Fatalf("Expected 1 proposal ID, got %d", len(answer.ProposalIDs))
				}
			},
		},
		{
			name:        "Should return error for a scalar value",
			rawValue:    `"11111111-1111-1111-1111-111111111111"`,
			shouldError: true,
		},
		{
			name:        "Should return error for empty list",
			rawValue:    `[]`,
			shouldError: true,
		},
		{
			name:        "Should return error for null",
			rawValue:    `null`,
			shouldError: true,
		},
		{
			name:        "Should return error for unknown proposal in the list",
			rawValue:    `["11111111-1111-1111-1111-111111111111", "99999999-9999-9999-9999-999999999999"]`,
			shouldError: true,
		},
		{
			name:        "Should return error for list of numbers",
			rawValue:    `[1, 2]`,
			shouldError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := mc.DecodeRequest([]byte(tc.rawValue))
			if tc.shouldError {
				if err == nil {
					t.Fatalf("Expected error for %s, got none", tc.rawValue)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tc.validate != nil {
				tc.validate(t, result)
			}
		})
	}
}

func TestMultiChoice_DisplayValue(t *testing.T) {
	choices := testChoices()
	mc := NewMultiChoice(Question{ID: uuid.New()}, choices)

	display, err := mc.DisplayValue(shared.MultiChoiceAnswer{
		ProposalIDs: []uuid.UUID{choices[0].ID, choices[1].ID},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if display != "Option A, Option B" {
		t.Errorf("Expected 'Option A, Option B', got %q", display)
	}
}
