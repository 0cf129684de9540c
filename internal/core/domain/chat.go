package domain

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatSession identifies an open per-document chat on the server.
type ChatSession struct {
	ID string `json:"session_id"`
}

// ChatMessage lives only in view state; the client keeps no transcript
// beyond the current session.
type ChatMessage struct {
	Role ChatRole
	Text string
}
