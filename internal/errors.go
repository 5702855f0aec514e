package internal

import (
	"errors"

	"github.com/NYCU-SDC/summer/pkg/problem"
)

var (
	// Auth Errors
	ErrPermissionDenied    = errors.New("permission denied")
	ErrUnauthorizedError   = errors.New("unauthorized error")
	ErrInternalServerError = errors.New("internal server error")
	ErrForbiddenError      = errors.New("forbidden error")
	ErrNotFound            = errors.New("not found")

	// JWT Authentication Errors
	ErrMissingAuthHeader       = errors.New("missing access token")
	ErrInvalidAuthHeaderFormat = errors.New("invalid access token")
	ErrInvalidJWTToken         = errors.New("invalid JWT token")

	// Sondage Errors
	ErrSondageNotFound = errors.New("sondage not found")

	// Question Errors
	ErrQuestionNotFound     = errors.New("question not found")
	ErrQuestionTypeMismatch = errors.New("question type does not match the expected type")
	ErrValidationFailed     = errors.New("validation failed")

	// Proposal Errors
	ErrProposalNotFound          = errors.New("response proposal not found")
	ErrProposalNotChoiceQuestion = errors.New("proposals are only allowed on choice questions")

	// Person Errors
	ErrPersonNotFound      = errors.New("person not found")
	ErrPersonContactNeeded = errors.New("person requires an email or a phone number")

	// Response Errors
	ErrResponseNotFound      = errors.New("response not found")
	ErrResponseAlreadyExists = errors.New("person already has a response for this sondage")

	ErrInvalidRequestBody = errors.New("invalid request body")
)

func NewProblemWriter() *problem.HttpWriter {
	return problem.NewWithMapping(ErrorHandler)
}

func ErrorHandler(err error) problem.Problem {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return problem.NewForbiddenProblem("permission denied")
	case errors.Is(err, ErrUnauthorizedError):
		return problem.NewUnauthorizedProblem("unauthorized error")
	case errors.Is(err, ErrInternalServerError):
		return problem.NewInternalServerProblem("internal server error")
	case errors.Is(err, ErrForbiddenError):
		return problem.NewForbiddenProblem("forbidden error")
	case errors.Is(err, ErrNotFound):
		return problem.NewNotFoundProblem("not found")
	// JWT Authentication Errors
	case errors.Is(err, ErrMissingAuthHeader):
		return problem.NewUnauthorizedProblem("missing access token")
	case errors.Is(err, ErrInvalidAuthHeaderFormat):
		return problem.NewUnauthorizedProblem("invalid access token")
	case errors.Is(err, ErrInvalidJWTToken):
		return problem.NewUnauthorizedProblem("invalid JWT token")
	// Sondage Errors
	case errors.Is(err, ErrSondageNotFound):
		return problem.NewNotFoundProblem("sondage not found")
	// Question Errors
	case errors.Is(err, ErrQuestionNotFound):
		return problem.NewNotFoundProblem("question not found")
	case errors.Is(err, ErrQuestionTypeMismatch):
		return problem.NewValidateProblem("question type does not match the expected type")
	case errors.Is(err, ErrValidationFailed):
		return problem.NewValidateProblem("validation failed")
	// Proposal Errors
	case errors.Is(err, ErrProposalNotFound):
		return problem.NewNotFoundProblem("response proposal not found")
	case errors.Is(err, ErrProposalNotChoiceQuestion):
		return problem.NewValidateProblem("proposals are only allowed on choice questions")
	// Person Errors
	case errors.Is(err, ErrPersonNotFound):
		return problem.NewNotFoundProblem("person not found")
	case errors.Is(err, ErrPersonContactNeeded):
		return problem.NewValidateProblem("person requires an email or a phone number")
	// Response Errors
	case errors.Is(err, ErrResponseNotFound):
		return problem.NewNotFoundProblem("response not found")
	case errors.Is(err, ErrResponseAlreadyExists):
		return problem.NewValidateProblem("person already has a response for this sondage")
	case errors.Is(err, ErrInvalidRequestBody):
		return problem.NewBadRequestProblem("invalid request body")
	}
	return problem.Problem{}
}
