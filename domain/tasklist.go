package domain

import "time"

// TaskList is a named, colored, user-owned container for tasks.
// Order is unique within the owner's lists when creations are sequential;
// concurrent creations can race to the same value (stored as-is).
type TaskList struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
