package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// ContextUserKey is where AuthMiddleware stores the parsed *Claims.
const ContextUserKey = "user"

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Messages returned to clients for the exam endpoints.
const (
	MsgInvalidExamID     = "Invalid exam ID format"
	MsgInvalidQuestionID = "Invalid question ID format"
	MsgExamNotFound      = "Exam not found"
	MsgQuestionNotFound  = "Question not found"
	MsgExamNotAvailable  = "Exam is not open for attempts"
	MsgResultNotFound    = "Result not found"
)
