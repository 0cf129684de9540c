package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/ai4juris/juriscli/internal/core/domain"
)

// emptyReply stands in when the assistant returns no payload at all.
const emptyReply = "Sem resposta."

type ChatService struct {
	client *Client
}

func NewChatService(client *Client) *ChatService {
	return &ChatService{client: client}
}

func (s *ChatService) Open(ctx context.Context, documentID int64) (domain.ChatSession, error) {
	var session domain.ChatSession
	path := fmt.Sprintf("/documents/%d/chat/create/", documentID)
	if err := s.client.postJSON(ctx, path, nil, &session, "open chat"); err != nil {
		return domain.ChatSession{}, err
	}
	if session.ID == "" {
		return domain.ChatSession{}, fmt.Errorf("open chat: response carries no session id")
	}
	return session, nil
}

func (s *ChatService) Send(ctx context.Context, documentID int64, sessionID, message string) (string, error) {
	payload := map[string]string{
		"session_id": sessionID,
		"message":    message,
	}

	var resp struct {
		Response json.RawMessage `json:"response"`
	}
	path := fmt.Sprintf("/documents/%d/chat/message/", documentID)
	if err := s.client.postJSON(ctx, path, payload, &resp, "send chat message"); err != nil {
		return "", err
	}
	return coerceReply(resp.Response), nil
}

// Close is the best-effort session teardown issued when the view goes away.
// Callers swallow the error; there is no user left to notify.
func (s *ChatService) Close(ctx context.Context, documentID int64, sessionID string) error {
	payload := map[string]string{"session_id": sessionID}
	path := fmt.Sprintf("/documents/%d/chat/close/", documentID)
	return s.client.postJSON(ctx, path, payload, nil, "close chat")
}

// coerceReply turns whatever the server put under "response" into display
// text: strings pass through, anything else is rendered as its JSON form.
func coerceReply(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return emptyReply
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text
	}
	return string(trimmed)
}
