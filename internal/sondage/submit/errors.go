package submit

import "net/http"

// Stable workflow codes. Clients match on these strings, never on the
// human-readable messages.
const (
	CodeSondageIDMissing         = "SONDAGE_ID_MISSING"
	CodePersonInformationMissing = "SONDAGE_PERSON_INFORMATION_MISSING"
	CodePersonEmailMissing       = "SONDAGE_PERSON_EMAIL_MISSING"
	CodeResponseMissing          = "SONDAGE_RESPONSE_MISSING"
	CodeNoMailNoPhoneNumber      = "SONDAGE_NO_MAIL_NO_PHONE_NUMBER"
	CodePersonAlreadyReply       = "SONDAGE_PERSON_ALREADY_REPLY"
	CodeQuestionNotExist         = "SONDAGE_QUESTION_NOT_EXIST"
	CodeBadQuestionResponseType  = "SONDAGE_BAD_QUESTION_RESPONSE_TYPE"
)

// Error is a submission failure with a stable code and an HTTP status.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Message
}

func newError(code, message string, status int) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

func errSondageIDMissing() *Error {
	return newError(CodeSondageIDMissing, "sondage id is missing or unknown", http.StatusNotFound)
}

func errSondageIDEmpty() *Error {
	return newError(CodeSondageIDMissing, "sondage id is required", http.StatusBadRequest)
}

func errPersonInformationMissing() *Error {
	return newError(CodePersonInformationMissing, "person information is required", http.StatusBadRequest)
}

func errPersonEmailMissing() *Error {
	return newError(CodePersonEmailMissing, "person must supply an email or a phone number", http.StatusBadRequest)
}

func errResponseMissing() *Error {
	return newError(CodeResponseMissing, "responses are required", http.StatusBadRequest)
}

func errNoMailNoPhoneNumber() *Error {
	return newError(CodeNoMailNoPhoneNumber, "no email and no phone number to identify the person", http.StatusBadRequest)
}

func errPersonAlreadyReply() *Error {
	return newError(CodePersonAlreadyReply, "this person already replied to this sondage", http.StatusConflict)
}

func errQuestionNotExist(questionID string) *Error {
	return newError(CodeQuestionNotExist, "question "+questionID+" does not exist in this sondage", http.StatusBadRequest)
}

func errBadQuestionResponseType(questionID string) *Error {
	return newError(CodeBadQuestionResponseType, "bad response value for question "+questionID, http.StatusBadRequest)
}
