package assessment

import (
	"time"

	"github.com/ascendprep/ascend/internal/curriculum"
)

// Response is one enriched answer from a diagnostic assessment attempt.
type Response struct {
	QuestionID string             `json:"question_id"`
	Subject    curriculum.Subject `json:"subject"`
	ChapterKey string             `json:"chapter_key"`
	Correct    bool               `json:"correct"`
	TimeTaken  time.Duration      `json:"time_taken_ms"`
	AnsweredAt time.Time          `json:"answered_at"`
}

// Rejection reasons for per-item response validation.
const (
	ReasonMissingSubject = "missing_subject"
	ReasonMissingChapter = "missing_chapter"
	ReasonUnknownSubject = "unknown_subject"
)

// Rejected pairs a discarded response with the reason it was discarded.
type Rejected struct {
	QuestionID string `json:"question_id"`
	Reason     string `json:"reason"`
}

// validate returns the rejection reason for a malformed response, or "" if
// the response is usable.
func (r *Response) validate() string {
	if r.Subject == "" {
		return ReasonMissingSubject
	}
	if _, err := curriculum.ParseSubject(string(r.Subject)); err != nil {
		return ReasonUnknownSubject
	}
	if r.ChapterKey == "" {
		return ReasonMissingChapter
	}
	return ""
}
