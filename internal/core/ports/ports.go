package ports

import (
	"context"
	"io"

	"github.com/ai4juris/juriscli/internal/core/domain"
)

// SessionStore holds the current credential pair. It is written only by
// sign-in, registration and the gateway's 401 handler.
type SessionStore interface {
	Get() (domain.Tokens, bool)
	Set(tokens domain.Tokens) error
	Clear() error
}

// Notifier receives transient user-facing messages.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Confirmer asks the user to confirm a destructive action before the
// command fires.
type Confirmer func(prompt string) bool

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*domain.Account, domain.Tokens, error)
	Register(ctx context.Context, name, email, password, confirmPassword string) (*domain.Account, domain.Tokens, error)
	Profile(ctx context.Context) (*domain.Account, error)
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Account, error)
}

type DocumentAPI interface {
	List(ctx context.Context) ([]domain.Document, error)
	Get(ctx context.Context, id int64) (*domain.Document, error)
	Upload(ctx context.Context, filename string, file io.Reader) (*domain.Document, error)
	GroupDocuments(ctx context.Context, groupID int64) ([]domain.Document, error)
	UploadToGroup(ctx context.Context, groupID int64, filename string, file io.Reader) (*domain.Document, error)
}

type ChatAPI interface {
	Open(ctx context.Context, documentID int64) (domain.ChatSession, error)
	Send(ctx context.Context, documentID int64, sessionID, message string) (string, error)
	Close(ctx context.Context, documentID int64, sessionID string) error
}

// GroupAPI issues membership commands. Mutations return the server-supplied
// confirmation message so callers can surface it verbatim.
type GroupAPI interface {
	MyGroups(ctx context.Context) ([]domain.Group, error)
	Create(ctx context.Context, name string) (string, error)
	JoinByCode(ctx context.Context, code string) (string, error)
	Members(ctx context.Context, groupID int64) ([]domain.Member, error)
	JoinRequests(ctx context.Context, groupID int64) ([]domain.JoinRequest, error)
	Invite(ctx context.Context, groupID int64, email string) (string, error)
	MyInvites(ctx context.Context) ([]domain.Invite, error)
	AcceptInvite(ctx context.Context, inviteID int64) (string, error)
	DeclineInvite(ctx context.Context, inviteID int64) (string, error)
	ApproveRequest(ctx context.Context, requestID int64) (string, error)
	RejectRequest(ctx context.Context, requestID int64) (string, error)
	Promote(ctx context.Context, groupID, memberID int64) (string, error)
	Demote(ctx context.Context, groupID, memberID int64) (string, error)
	Remove(ctx context.Context, groupID, memberID int64) (string, error)
	Leave(ctx context.Context, groupID int64) (string, error)
}
