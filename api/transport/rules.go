package transport

import (
	"github.com/selfmastery/backend/domain"
	"github.com/selfmastery/backend/internal/validator"
)

// Per-endpoint validation rule sets, evaluated before any repository call.
// Message texts are part of the API contract.

var RegisterRules = []validator.Rule[RegisterRequest]{
	{Field: "name", Message: "Name is required",
		Valid: func(r RegisterRequest) bool { return validator.NotEmpty(r.Name) }},
	{Field: "email", Message: "Invalid email address",
		Valid: func(r RegisterRequest) bool { return validator.Email(r.Email) }},
	{Field: "password", Message: "Password must be at least 6 characters long",
		Valid: func(r RegisterRequest) bool { return validator.MinLen(r.Password, 6) }},
}

var LoginRules = []validator.Rule[LoginRequest]{
	{Field: "email", Message: "Invalid email address",
		Valid: func(r LoginRequest) bool { return validator.Email(r.Email) }},
	{Field: "password", Message: "Password is required",
		Valid: func(r LoginRequest) bool { return validator.NotEmpty(r.Password) }},
}

var TaskListRules = []validator.Rule[TaskListRequest]{
	{Field: "name", Message: "Name is required",
		Valid: func(r TaskListRequest) bool { return validator.NotEmpty(r.Name) }},
	{Field: "color", Message: "Color is required",
		Valid: func(r TaskListRequest) bool { return validator.NotEmpty(r.Color) }},
}

var TaskRules = []validator.Rule[TaskRequest]{
	{Field: "title", Message: "Title is required",
		Valid: func(r TaskRequest) bool { return validator.NotEmpty(r.Title) }},
	{Field: "priority", Message: "Invalid priority value (must be high, medium, or low)",
		Valid: func(r TaskRequest) bool { return domain.ValidPriority(r.Priority) }},
	{Field: "due_date", Message: "Invalid due_date value (must be an RFC 3339 timestamp)",
		Valid: func(r TaskRequest) bool { return validator.Timestamp(r.DueDate) }},
	{Field: "reminder", Message: "Invalid reminder value (must be an RFC 3339 timestamp)",
		Valid: func(r TaskRequest) bool { return validator.Timestamp(r.Reminder) }},
}
