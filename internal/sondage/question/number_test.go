package question

import (
	"testing"

	"sondage-backend/internal/sondage/shared"

	"github.com/google/uuid"
)

func TestNumber_DecodeRequest(t *testing.T) {
	n := NewNumber(Question{ID: uuid.New(), AnswerType: AnswerTypeNumber})

	tests := []struct {
		name        string
		rawValue    string
		shouldError bool
		expected    int64
	}{
		{
			name:     "Should decode a JSON integer",
			rawValue: `5`,
			expected: 5,
		},
		{
			name:     "Should decode a negative integer",
			rawValue: `-12`,
			expected: -12,
		},
		{
			name:     "Should coerce a numeric string",
			rawValue: `"17"`,
			expected: 17,
		},
		{
			name:     "Should coerce a numeric string with surrounding spaces",
			rawValue: `" 8 "`,
			expected: 8,
		},
		{
			name:        "Should return error for a float",
			rawValue:    `5.5`,
			shouldError: true,
		},
		{
			name:        "Should return error for a non-numeric string",
			rawValue:    `"five"`,
			shouldError: true,
		},
		{
			name:        "Should return error for empty string",
			rawValue:    `""`,
			shouldError: true,
		},
		{
			name:        "Should return error for null",
			rawValue:    `null`,
			shouldError: true,
		},
		{
			name:        "Should return error for a list value",
			rawValue:    `[5]`,
			shouldError: true,
		},
		{
			name:        "Should return error for a boolean",
			rawValue:    `true`,
			shouldError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := n.DecodeRequest([]byte(tc.rawValue))
			if tc.shouldError {
				if err == nil {
					t.Fatalf("Expected error for %s, got none", tc.rawValue)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			answer, ok := result.(shared.NumberAnswer)
			if !ok {
				t.Fatalf("Expected shared.NumberAnswer, got %T", result)
			}
			if answer.Value != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, answer.Value)
			}
		})
	}
}

func TestNumber_DisplayValue(t *testing.T) {
	n := NewNumber(Question{ID: uuid.New()})

	display, err := n.DisplayValue(shared.NumberAnswer{Value: 42})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if display != "42" {
		t.Errorf("Expected '42', got %q", display)
	}
}

func TestNewAnswerable(t *testing.T) {
	tests := []struct {
		name        string
		answerType  AnswerType
		shouldError bool
	}{
		{name: "single choice", answerType: AnswerTypeSingleChoice},
		{name: "multi choice", answerType: AnswerTypeMultiChoice},
		{name: "free text", answerType: AnswerTypeFreeText},
		{name: "number", answerType: AnswerTypeNumber},
		{name: "unknown code", answerType: AnswerType(7), shouldError: true},
		{name: "negative code", answerType: AnswerType(-1), shouldError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := Question{ID: uuid.New(), AnswerType: tc.answerType}
			answerable, err := NewAnswerable(q, nil)
			if tc.shouldError {
				if err == nil {
					t.Fatal("Expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if answerable.Question().ID != q.ID {
				t.Errorf("Answerable does not wrap the given question")
			}
		})
	}
}
