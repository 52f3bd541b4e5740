package model

// SubjectScore is the per-subject tally of one graded attempt.
type SubjectScore struct {
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Marks   float64 `json:"marks"`
}

// ExamResult is a graded attempt as stored for the "my results" views.
// A retake writes a new row; rows are never updated.
//
// swagger:model ExamResult
type ExamResult struct {
	UUIDBase
	UserID           uint                    `gorm:"index;type:bigint unsigned" json:"userId"`
	ExamID           string                  `gorm:"size:24;index" json:"examId"`
	ExamTitle        string                  `gorm:"size:255" json:"examTitle"`
	TotalQuestions   int                     `json:"totalQuestions"`
	CorrectAnswers   int                     `json:"correctAnswers"`
	WrongAnswers     int                     `json:"wrongAnswers"`
	Unattempted      int                     `json:"unattempted"`
	TotalMarks       float64                 `json:"totalMarks"`
	ObtainedMarks    float64                 `json:"obtainedMarks"`
	Percentage       float64                 `json:"percentage"`
	TimeTaken        int                     `json:"timeTaken"`
	SubjectWiseScore map[string]SubjectScore `gorm:"type:json;serializer:json" json:"subjectWiseScore"`
	Answers          map[string]AnswerValue  `gorm:"type:json;serializer:json" json:"answers,omitempty"`
}

func (ExamResult) TableName() string {
	return "exam_results"
}
