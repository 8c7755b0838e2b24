package monitor

import "time"

type Status struct {
	PostgreSQL  bool      `json:"postgresql"`
	Journal     bool      `json:"journal"`
	JournalSize int       `json:"journal_size"`
	LastCheck   time.Time `json:"last_check"`
}
