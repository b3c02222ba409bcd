package hr

import "context"

type EmployeeListOpts struct {
	DepartmentID int64 // 0 = any
	ActiveOnly   bool
	PendingOnly  bool // registered but not yet approved
	Limit        int
	Offset       int
}

type AttemptListOpts struct {
	QuizID     int64 // 0 = any
	EmployeeID int64 // 0 = any
	Limit      int
	Offset     int
}

// QuizInput is the admin-side create/update payload: a quiz with its full
// nested question/answer tree.
type QuizInput struct {
	Title        string          `json:"title"`
	DocumentID   int64           `json:"document_id"`
	DepartmentID int64           `json:"department_id"`
	Questions    []QuestionInput `json:"questions"`
}

type QuestionInput struct {
	Text    string        `json:"text"`
	Answers []AnswerInput `json:"answers"`
}

type AnswerInput struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Store is the content-store surface. The quiz engine consumes the read side
// plus RecordAttempt; everything else serves the bot menus, the admin panel
// and the notification jobs.
type Store interface {
	// Employees (access gate + admin).
	GetEmployee(ctx context.Context, id int64) (Employee, error)
	CreateEmployee(ctx context.Context, e Employee) error
	ListEmployees(ctx context.Context, opts EmployeeListOpts) ([]Employee, error)
	SetEmployeeActive(ctx context.Context, id int64, active bool) error
	AssignDepartment(ctx context.Context, id int64, departmentID *int64) error
	AddComment(ctx context.Context, employeeID int64, text string) (Comment, error)
	ListComments(ctx context.Context, employeeID int64) ([]Comment, error)
	EmployeeQuizStats(ctx context.Context, id int64) (QuizStats, error)

	// Departments.
	CreateDepartment(ctx context.Context, name string) (Department, error)
	ListDepartments(ctx context.Context) ([]Department, error)
	RenameDepartment(ctx context.Context, id int64, name string) error
	DeleteDepartment(ctx context.Context, id int64) error

	// Documents.
	CreateDocument(ctx context.Context, d Document) (Document, error)
	GetDocument(ctx context.Context, id int64) (Document, error)
	ListDocuments(ctx context.Context) ([]Document, error)
	DocumentsByDepartment(ctx context.Context, departmentID int64) ([]Document, error)
	DeleteDocument(ctx context.Context, id int64) error

	// Quizzes and their content.
	CreateQuiz(ctx context.Context, in QuizInput) (Quiz, error)
	GetQuiz(ctx context.Context, id int64) (Quiz, error)
	ListQuizzes(ctx context.Context) ([]Quiz, error)
	DeleteQuiz(ctx context.Context, id int64) error
	QuizzesByDepartment(ctx context.Context, departmentID int64) ([]Quiz, error)
	QuizQuestions(ctx context.Context, quizID int64) ([]Question, error)
	QuestionIDs(ctx context.Context, quizID int64) ([]int64, error)
	GetQuestion(ctx context.Context, id int64) (Question, error)
	AnswersByQuestion(ctx context.Context, questionID int64) ([]Answer, error)
	GetAnswer(ctx context.Context, id int64) (Answer, error)

	// Attempts. RecordAttempt is the single write path: one attempt row plus
	// its user_answers rows in one transaction, ErrAttemptExists on the
	// (employee, quiz) uniqueness breach.
	AttemptExists(ctx context.Context, employeeID, quizID int64) (bool, error)
	AttemptsByEmployee(ctx context.Context, employeeID int64) ([]QuizAttempt, error)
	RecordAttempt(ctx context.Context, rec AttemptRecord) (QuizAttempt, error)
	ListAttempts(ctx context.Context, opts AttemptListOpts) ([]QuizAttempt, error)
	AttemptAnswers(ctx context.Context, attemptID int64) ([]UserAnswer, error)

	// Mailings.
	CreateMailing(ctx context.Context, m Mailing) (Mailing, error)
	ListMailings(ctx context.Context) ([]Mailing, error)
	DeleteMailing(ctx context.Context, id int64) error
	AddAttachment(ctx context.Context, a Attachment) (Attachment, error)
	DueMailings(ctx context.Context, now int64) ([]Mailing, error)
	MailingAttachments(ctx context.Context, mailingID int64) ([]Attachment, error)
	MailingRecipients(ctx context.Context, mailingID int64) ([]int64, error)
	SetAttachmentFileID(ctx context.Context, attachmentID int64, fileID string) error
	MarkMailingSent(ctx context.Context, id int64) error

	// Notifications.
	ActiveEmployeesByDepartments(ctx context.Context, departmentIDs []int64) ([]int64, error)
	PendingQuizCounts(ctx context.Context) ([]PendingCount, error)

	// Company info and help content.
	AboutSections(ctx context.Context) ([]AboutSection, error)
	GetAboutSection(ctx context.Context, id int64) (AboutSection, error)
	CreateAboutSection(ctx context.Context, s AboutSection) (AboutSection, error)
	UpdateAboutSection(ctx context.Context, s AboutSection) error
	DeleteAboutSection(ctx context.Context, id int64) error
	HelpContent(ctx context.Context) (HelpContent, error)
	SetHelpText(ctx context.Context, text string) error
	CreateHelpButton(ctx context.Context, b HelpButton) (HelpButton, error)
	UpdateHelpButton(ctx context.Context, b HelpButton) error
	DeleteHelpButton(ctx context.Context, id int64) error

	// Staff accounts for the admin panel.
	GetStaff(ctx context.Context, username string) (StaffAccount, error)
	UpsertStaff(ctx context.Context, a StaffAccount) error
	ListStaff(ctx context.Context) ([]StaffAccount, error)
	DeleteStaff(ctx context.Context, username string) error
}
