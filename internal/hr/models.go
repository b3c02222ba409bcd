package hr

type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Employee is a Telegram user known to the bot. The id is the Telegram user
// id; new employees are created inactive and unlocked by HR.
type Employee struct {
	ID           int64  `json:"id"`
	Username     string `json:"username,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	DepartmentID *int64 `json:"department_id,omitempty"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    int64  `json:"created_at"`
}

type Comment struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employee_id"`
	Comment    string `json:"comment"`
	CreatedAt  int64  `json:"created_at"`
}

type Document struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	FileKey       string  `json:"file_key"`
	DepartmentIDs []int64 `json:"department_ids,omitempty"`
	CreatedAt     int64   `json:"created_at"`
}

type Quiz struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	DocumentID   int64  `json:"document_id"`
	DepartmentID int64  `json:"department_id"`
}

type Question struct {
	ID     int64  `json:"id"`
	QuizID int64  `json:"quiz_id"`
	Text   string `json:"text"`
}

type Answer struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct"`
}

// QuizAttempt is the permanent record of a completed run. At most one per
// (employee, quiz), enforced by the store.
type QuizAttempt struct {
	ID          int64 `json:"id"`
	EmployeeID  int64 `json:"employee_id"`
	QuizID      int64 `json:"quiz_id"`
	Score       int   `json:"score"`
	CompletedAt int64 `json:"completed_at"`
}

type UserAnswer struct {
	ID         int64 `json:"id"`
	AttemptID  int64 `json:"attempt_id"`
	QuestionID int64 `json:"question_id"`
	AnswerID   int64 `json:"answer_id"`
}

// AnswerRef is one (question, chosen answer) pair collected during a session.
type AnswerRef struct {
	QuestionID int64 `json:"question_id"`
	AnswerID   int64 `json:"answer_id"`
}

// AttemptRecord is everything Finish writes in one transaction.
type AttemptRecord struct {
	EmployeeID int64
	QuizID     int64
	Score      int
	Answers    []AnswerRef
}

type Mailing struct {
	ID            int64   `json:"id"`
	Text          string  `json:"text,omitempty"`
	DepartmentIDs []int64 `json:"department_ids,omitempty"` // empty = all active employees
	ScheduledAt   int64   `json:"scheduled_at"`
	Sent          bool    `json:"sent"`
}

const (
	AttachmentPhoto    = "photo"
	AttachmentVideo    = "video"
	AttachmentDocument = "document"
)

type Attachment struct {
	ID             int64  `json:"id"`
	MailingID      int64  `json:"mailing_id"`
	Kind           string `json:"kind"` // photo|video|document
	FileKey        string `json:"file_key"`
	ProviderFileID string `json:"provider_file_id,omitempty"` // Telegram file_id, memoized after first upload
}

type AboutSection struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type HelpContent struct {
	Text    string       `json:"text"`
	Buttons []HelpButton `json:"buttons"`
}

type HelpButton struct {
	ID       int64  `json:"id"`
	Label    string `json:"label"`
	URL      string `json:"url"`
	IsActive bool   `json:"is_active"`
}

type StaffAccount struct {
	Username string `json:"username"`
	PassHash string `json:"-"`
	Role     string `json:"role"` // admin|hr
}

// QuizStats is the admin's per-employee "passed X of Y" figure.
type QuizStats struct {
	Passed int `json:"passed"`
	Total  int `json:"total"`
}

// PendingCount feeds the daily reminder job.
type PendingCount struct {
	EmployeeID int64 `json:"employee_id"`
	Count      int   `json:"count"`
}
