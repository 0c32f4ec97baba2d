package session

import "time"

type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Verdict is the moderation decision for a single message.
// Reason is populated only for blocked messages.
type Verdict struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

type Entry struct {
	Message Message `json:"message"`
	Verdict Verdict `json:"verdict"`
}

type Stats struct {
	Total        int     `json:"total"`
	Accepted     int     `json:"accepted"`
	Blocked      int     `json:"blocked"`
	ApprovalRate float64 `json:"approval_rate"`
}
