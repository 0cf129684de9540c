package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/ai4juris/juriscli/internal/core/domain"
)

type fakeDocumentAPI struct {
	mu           sync.Mutex
	docs         []domain.Document
	listErr      error
	getFn        func(call int, id int64) (*domain.Document, error)
	getCalls     int
	uploadFn     func(filename string) (*domain.Document, error)
	uploads      []string
	groupDocs    map[int64][]domain.Document
	groupUploads []int64
}

func (f *fakeDocumentAPI) List(context.Context) ([]domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Document(nil), f.docs...), nil
}

func (f *fakeDocumentAPI) Get(_ context.Context, id int64) (*domain.Document, error) {
	f.mu.Lock()
	f.getCalls++
	call := f.getCalls
	fn := f.getFn
	docs := f.docs
	f.mu.Unlock()

	if fn != nil {
		return fn(call, id)
	}
	for _, doc := range docs {
		if doc.ID == id {
			d := doc
			return &d, nil
		}
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get document", fmt.Errorf("document %d", id))
}

func (f *fakeDocumentAPI) gets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls
}

func (f *fakeDocumentAPI) Upload(_ context.Context, filename string, _ io.Reader) (*domain.Document, error) {
	f.mu.Lock()
	f.uploads = append(f.uploads, filename)
	fn := f.uploadFn
	f.mu.Unlock()
	if fn != nil {
		return fn(filename)
	}
	return &domain.Document{ID: 99, Filename: filename, Status: "queued"}, nil
}

func (f *fakeDocumentAPI) GroupDocuments(_ context.Context, groupID int64) ([]domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Document(nil), f.groupDocs[groupID]...), nil
}

func (f *fakeDocumentAPI) UploadToGroup(_ context.Context, groupID int64, filename string, _ io.Reader) (*domain.Document, error) {
	f.mu.Lock()
	f.groupUploads = append(f.groupUploads, groupID)
	f.uploads = append(f.uploads, filename)
	fn := f.uploadFn
	f.mu.Unlock()
	if fn != nil {
		return fn(filename)
	}
	return &domain.Document{ID: 100, Filename: filename, Status: "queued", GroupID: groupID}, nil
}

type fakeChatAPI struct {
	mu       sync.Mutex
	openErr  error
	opens    int
	sendFn   func(message string) (string, error)
	sent     []string
	closed   []string
	closeErr error
}

func (f *fakeChatAPI) Open(context.Context, int64) (domain.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	if f.openErr != nil {
		return domain.ChatSession{}, f.openErr
	}
	return domain.ChatSession{ID: "sess-1"}, nil
}

func (f *fakeChatAPI) Send(_ context.Context, _ int64, _ string, message string) (string, error) {
	f.mu.Lock()
	f.sent = append(f.sent, message)
	fn := f.sendFn
	f.mu.Unlock()
	if fn != nil {
		return fn(message)
	}
	return "resposta", nil
}

func (f *fakeChatAPI) Close(_ context.Context, _ int64, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, sessionID)
	return f.closeErr
}

func (f *fakeChatAPI) openCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (f *fakeNotifier) Success(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.successes = append(f.successes, message)
}

func (f *fakeNotifier) Error(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, message)
}

func (f *fakeNotifier) lastSuccess() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.successes) == 0 {
		return ""
	}
	return f.successes[len(f.successes)-1]
}

func (f *fakeNotifier) lastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.failures) == 0 {
		return ""
	}
	return f.failures[len(f.failures)-1]
}

type fakeGroupAPI struct {
	mu       sync.Mutex
	groups   []domain.Group
	members  map[int64][]domain.Member
	requests map[int64][]domain.JoinRequest
	invites  []domain.Invite
	calls    []string
	message  string
	err      error
}

func (f *fakeGroupAPI) record(call string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if f.err != nil {
		return "", f.err
	}
	return f.message, nil
}

func (f *fakeGroupAPI) mutations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGroupAPI) MyGroups(context.Context) ([]domain.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Group(nil), f.groups...), nil
}

func (f *fakeGroupAPI) Create(_ context.Context, name string) (string, error) {
	return f.record("create:" + name)
}

func (f *fakeGroupAPI) JoinByCode(_ context.Context, code string) (string, error) {
	return f.record("join:" + code)
}

func (f *fakeGroupAPI) Members(_ context.Context, groupID int64) ([]domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Member(nil), f.members[groupID]...), nil
}

func (f *fakeGroupAPI) JoinRequests(_ context.Context, groupID int64) ([]domain.JoinRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.JoinRequest(nil), f.requests[groupID]...), nil
}

func (f *fakeGroupAPI) Invite(_ context.Context, groupID int64, email string) (string, error) {
	return f.record(fmt.Sprintf("invite:%d:%s", groupID, email))
}

func (f *fakeGroupAPI) MyInvites(context.Context) ([]domain.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Invite(nil), f.invites...), nil
}

func (f *fakeGroupAPI) AcceptInvite(_ context.Context, inviteID int64) (string, error) {
	return f.record(fmt.Sprintf("accept_invite:%d", inviteID))
}

func (f *fakeGroupAPI) DeclineInvite(_ context.Context, inviteID int64) (string, error) {
	return f.record(fmt.Sprintf("decline_invite:%d", inviteID))
}

func (f *fakeGroupAPI) ApproveRequest(_ context.Context, requestID int64) (string, error) {
	return f.record(fmt.Sprintf("approve:%d", requestID))
}

func (f *fakeGroupAPI) RejectRequest(_ context.Context, requestID int64) (string, error) {
	return f.record(fmt.Sprintf("reject:%d", requestID))
}

func (f *fakeGroupAPI) Promote(_ context.Context, groupID, memberID int64) (string, error) {
	return f.record(fmt.Sprintf("promote:%d:%d", groupID, memberID))
}

func (f *fakeGroupAPI) Demote(_ context.Context, groupID, memberID int64) (string, error) {
	return f.record(fmt.Sprintf("demote:%d:%d", groupID, memberID))
}

func (f *fakeGroupAPI) Remove(_ context.Context, groupID, memberID int64) (string, error) {
	return f.record(fmt.Sprintf("remove:%d:%d", groupID, memberID))
}

func (f *fakeGroupAPI) Leave(_ context.Context, groupID int64) (string, error) {
	return f.record(fmt.Sprintf("leave:%d", groupID))
}

type fakeAuthAPI struct {
	mu         sync.Mutex
	account    domain.Account
	tokens     domain.Tokens
	loginErr   error
	logins     []string
	registers  []string
	updateErr  error
	lastUpdate domain.ProfileUpdate
}

func (f *fakeAuthAPI) Login(_ context.Context, email, _ string) (*domain.Account, domain.Tokens, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, email)
	if f.loginErr != nil {
		return nil, domain.Tokens{}, f.loginErr
	}
	account := f.account
	return &account, f.tokens, nil
}

func (f *fakeAuthAPI) Register(_ context.Context, _, email, _, _ string) (*domain.Account, domain.Tokens, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registers = append(f.registers, email)
	if f.loginErr != nil {
		return nil, domain.Tokens{}, f.loginErr
	}
	account := f.account
	return &account, f.tokens, nil
}

func (f *fakeAuthAPI) Profile(context.Context) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account := f.account
	return &account, nil
}

func (f *fakeAuthAPI) UpdateProfile(_ context.Context, update domain.ProfileUpdate) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUpdate = update
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	account := f.account
	return &account, nil
}

type fakeSessionStore struct {
	mu     sync.Mutex
	tokens domain.Tokens
	held   bool
	sets   int
	clears int
}

func (f *fakeSessionStore) Get() (domain.Tokens, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens, f.held
}

func (f *fakeSessionStore) Set(tokens domain.Tokens) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = tokens
	f.held = true
	f.sets++
	return nil
}

func (f *fakeSessionStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = domain.Tokens{}
	f.held = false
	f.clears++
	return nil
}

// waitFor polls cond until it holds or the timeout elapses.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}
