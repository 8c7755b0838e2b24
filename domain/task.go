package domain

import "time"

// Task priorities. Stored and compared as the literal strings.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// ValidPriority reports whether p is one of the accepted priority values.
func ValidPriority(p string) bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Task belongs to exactly one list. It carries no owner id of its own;
// ownership is derived through the parent list at query time.
type Task struct {
	ID          string     `json:"id"`
	ListID      string     `json:"list_id"`
	ListName    string     `json:"list_name,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    string     `json:"priority"`
	Completed   bool       `json:"completed"`
	Reminder    *time.Time `json:"reminder,omitempty"`
	Recurring   string     `json:"recurring,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
