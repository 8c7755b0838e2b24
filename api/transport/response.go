package transport

import "encoding/json"

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
	}
}

// NewError returns an error envelope. err is either a message string or,
// for validation failures, the list of per-field messages.
func NewError(code string, err interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// MessagePayload wraps the confirmation messages the write endpoints return.
type MessagePayload struct {
	Message string `json:"message"`
}

// UserPayload is the public projection of a user record.
type UserPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginPayload is returned by POST /login.
type LoginPayload struct {
	Token string      `json:"token"`
	User  UserPayload `json:"user"`
}

// ProfilePayload is returned by PUT /profile.
type ProfilePayload struct {
	Message string      `json:"message"`
	User    UserPayload `json:"user"`
}
