package toast

import "time"

// Severity tags for user-facing notifications.
const (
	SeveritySuccess = "success"
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// TTL is how long a toast stays visible unless dismissed earlier.
const TTL = 5 * time.Second

// Toast is an ephemeral user-facing notification. IDs increase
// monotonically within one sink; no persistence across restarts.
type Toast struct {
	ID        int64     `json:"id"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
