package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ai4juris/juriscli/internal/core/domain"
	"github.com/ai4juris/juriscli/internal/core/ports"
	"github.com/ai4juris/juriscli/internal/observability/metrics"
)

// DetailPhase is the lifecycle of a document detail view.
type DetailPhase string

const (
	PhaseLoading  DetailPhase = "loading"
	PhasePending  DetailPhase = "pending"
	PhaseDone     DetailPhase = "done"
	PhaseError    DetailPhase = "error"
	PhaseNotFound DetailPhase = "not_found"
)

// ChatPhase is the lifecycle of the per-document chat. Failed is terminal
// for the view: a fresh visit to the document starts over.
type ChatPhase string

const (
	ChatNotStarted ChatPhase = "not_started"
	ChatCreating   ChatPhase = "creating"
	ChatReady      ChatPhase = "ready"
	ChatFailed     ChatPhase = "failed"
)

const (
	// DefaultPollInterval paces the background re-fetch while the
	// classification pipeline is still working.
	DefaultPollInterval = 4 * time.Second

	chatGreeting     = "Chat iniciado. Podes colocar perguntas sobre o documento."
	chatOpenFallback = "Não foi possível iniciar o chat."
	chatSendFallback = "Erro ao enviar mensagem."

	closeChatTimeout = 2 * time.Second
)

// serviceName labels metrics emitted by the view-models.
const serviceName = "juriscli"

// DocumentDetail drives a single document's detail view: the initial fetch,
// the pending-status polling loop, and the chat that opens exactly once when
// the classification completes.
type DocumentDetail struct {
	docs    ports.DocumentAPI
	chat    ports.ChatAPI
	logger  *slog.Logger
	metrics *metrics.ClientMetrics

	pollInterval time.Duration
	onChange     func()

	mu         sync.Mutex
	id         int64
	doc        *domain.Document
	phase      DetailPhase
	chatPhase  ChatPhase
	session    domain.ChatSession
	messages   []domain.ChatMessage
	chatError  string
	lastErr    error
	sending    bool
	cancelPoll context.CancelFunc
	pollDone   chan struct{}
}

type DetailOption func(*DocumentDetail)

func WithPollInterval(interval time.Duration) DetailOption {
	return func(d *DocumentDetail) {
		if interval > 0 {
			d.pollInterval = interval
		}
	}
}

func WithDetailLogger(logger *slog.Logger) DetailOption {
	return func(d *DocumentDetail) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func WithDetailMetrics(m *metrics.ClientMetrics) DetailOption {
	return func(d *DocumentDetail) { d.metrics = m }
}

// WithOnChange installs a hook invoked after every state transition, so a
// render loop can repaint without polling the view-model.
func WithOnChange(fn func()) DetailOption {
	return func(d *DocumentDetail) { d.onChange = fn }
}

func NewDocumentDetail(docs ports.DocumentAPI, chat ports.ChatAPI, opts ...DetailOption) *DocumentDetail {
	d := &DocumentDetail{
		docs:         docs,
		chat:         chat,
		logger:       slog.Default(),
		pollInterval: DefaultPollInterval,
		phase:        PhaseLoading,
		chatPhase:    ChatNotStarted,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Load fetches the document and settles the view into its first phase. A
// missing document lands in not-found; any other failure lands in error and
// polling never starts. Re-loading tears down any poller left over from the
// previous visit before touching the new document.
func (d *DocumentDetail) Load(ctx context.Context, id int64) {
	d.mu.Lock()
	d.stopPollingLocked()
	d.pollDone = nil
	d.id = id
	d.doc = nil
	d.phase = PhaseLoading
	d.chatPhase = ChatNotStarted
	d.messages = nil
	d.chatError = ""
	d.lastErr = nil
	d.session = domain.ChatSession{}
	d.mu.Unlock()
	d.notifyChange()

	doc, err := d.docs.Get(ctx, id)
	if err != nil {
		d.mu.Lock()
		d.lastErr = err
		if domain.IsKind(err, domain.ErrNotFound) {
			d.phase = PhaseNotFound
		} else {
			d.phase = PhaseError
		}
		d.mu.Unlock()
		d.logger.Warn("document_load_failed", "document_id", id, "error", err)
		d.notifyChange()
		return
	}
	d.applyDocument(ctx, doc)
}

// applyDocument settles the phase from a freshly fetched document and starts
// or stops the machinery the phase calls for.
func (d *DocumentDetail) applyDocument(ctx context.Context, doc *domain.Document) {
	status := doc.EffectiveStatus()

	d.mu.Lock()
	d.doc = doc
	openChat := false
	switch {
	case status == domain.StatusDone:
		d.phase = PhaseDone
		d.stopPollingLocked()
		openChat = d.chatPhase == ChatNotStarted
		if openChat {
			d.chatPhase = ChatCreating
		}
	case status == domain.StatusError:
		d.phase = PhaseError
		d.stopPollingLocked()
	case status.IsPending():
		d.phase = PhasePending
		d.startPollingLocked(ctx)
	default:
		// Statuses outside the known set render as pending but are not
		// expected to ever change, so no poller runs for them.
		d.phase = PhasePending
		d.stopPollingLocked()
	}
	d.mu.Unlock()
	d.notifyChange()

	if openChat {
		d.openChat(ctx)
	}
}

// startPollingLocked launches the re-fetch loop unless one is already
// running. Callers hold d.mu.
func (d *DocumentDetail) startPollingLocked(ctx context.Context) {
	if d.cancelPoll != nil {
		return
	}
	limiter := rate.NewLimiter(rate.Every(d.pollInterval), 1)
	limiter.Allow() // burn the initial token so the first poll waits a full interval

	pollCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	d.cancelPoll = cancel
	d.pollDone = done
	go d.pollLoop(ctx, pollCtx, limiter, done)
}

// stopPollingLocked cancels the poll loop at most once. Callers hold d.mu.
func (d *DocumentDetail) stopPollingLocked() {
	if d.cancelPoll == nil {
		return
	}
	d.cancelPoll()
	d.cancelPoll = nil
}

// pollLoop silently re-fetches the document until its status leaves the
// pending set. Fetch failures keep the last known data and keep polling;
// only a lost session stops the loop early.
func (d *DocumentDetail) pollLoop(ctx, pollCtx context.Context, limiter *rate.Limiter, done chan struct{}) {
	defer close(done)

	for {
		if err := limiter.Wait(pollCtx); err != nil {
			return
		}

		d.mu.Lock()
		id := d.id
		d.mu.Unlock()

		doc, err := d.docs.Get(pollCtx, id)
		if err != nil {
			if pollCtx.Err() != nil {
				return
			}
			if domain.IsKind(err, domain.ErrUnauthorized) {
				d.mu.Lock()
				d.phase = PhaseError
				d.lastErr = err
				d.stopPollingLocked()
				d.mu.Unlock()
				d.notifyChange()
				return
			}
			d.logger.Warn("document_poll_failed", "document_id", id, "error", err)
			continue
		}
		if pollCtx.Err() != nil {
			// Cancelled mid-fetch; the view has moved on, drop the result.
			return
		}

		pending := doc.EffectiveStatus().IsPending()
		d.metrics.RecordPoll(serviceName, pending)
		if pending {
			d.mu.Lock()
			if pollCtx.Err() != nil {
				d.mu.Unlock()
				return
			}
			d.doc = doc
			d.mu.Unlock()
			d.notifyChange()
			continue
		}

		if pollCtx.Err() != nil {
			return
		}
		d.applyDocument(ctx, doc)
		return
	}
}

// openChat creates the chat session and seeds the greeting. It runs at most
// once per visit; a failure is terminal for this view.
func (d *DocumentDetail) openChat(ctx context.Context) {
	d.mu.Lock()
	id := d.id
	d.mu.Unlock()
	d.notifyChange()

	session, err := d.chat.Open(ctx, id)

	d.mu.Lock()
	if err != nil {
		d.chatPhase = ChatFailed
		d.chatError = domain.UserMessage(err, chatOpenFallback)
	} else {
		d.session = session
		d.chatPhase = ChatReady
		d.messages = []domain.ChatMessage{{Role: domain.RoleAssistant, Text: chatGreeting}}
	}
	d.mu.Unlock()

	if err != nil {
		d.logger.Warn("chat_open_failed", "document_id", id, "error", err)
	}
	d.notifyChange()
}

// SendMessage submits a user message. Blank input, a chat that is not ready,
// or an in-flight send are all silent no-ops; the boolean reports whether a
// request was actually issued. The user's message stays in the transcript
// even when the send fails.
func (d *DocumentDetail) SendMessage(ctx context.Context, input string) (bool, error) {
	text := strings.TrimSpace(input)

	d.mu.Lock()
	if text == "" || d.chatPhase != ChatReady || d.sending {
		d.mu.Unlock()
		return false, nil
	}
	d.sending = true
	d.chatError = ""
	d.messages = append(d.messages, domain.ChatMessage{Role: domain.RoleUser, Text: text})
	id := d.id
	sessionID := d.session.ID
	d.mu.Unlock()
	d.metrics.RecordChatMessage(serviceName, string(domain.RoleUser))
	d.notifyChange()

	reply, err := d.chat.Send(ctx, id, sessionID, text)

	d.mu.Lock()
	d.sending = false
	if err != nil {
		d.chatError = domain.UserMessage(err, chatSendFallback)
		d.mu.Unlock()
		d.logger.Warn("chat_send_failed", "document_id", id, "error", err)
		d.notifyChange()
		return true, err
	}
	d.messages = append(d.messages, domain.ChatMessage{Role: domain.RoleAssistant, Text: reply})
	d.mu.Unlock()
	d.metrics.RecordChatMessage(serviceName, string(domain.RoleAssistant))
	d.notifyChange()
	return true, nil
}

// Close tears the view down: it stops polling and closes any open chat
// session best-effort, never surfacing the outcome to the user.
func (d *DocumentDetail) Close() {
	d.mu.Lock()
	d.stopPollingLocked()
	id := d.id
	sessionID := d.session.ID
	d.session = domain.ChatSession{}
	d.mu.Unlock()

	if sessionID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), closeChatTimeout)
	defer cancel()
	if err := d.chat.Close(ctx, id, sessionID); err != nil {
		d.logger.Debug("chat_close_failed", "document_id", id, "error", err)
	}
}

func (d *DocumentDetail) notifyChange() {
	if d.onChange != nil {
		d.onChange()
	}
}

func (d *DocumentDetail) Phase() DetailPhase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

func (d *DocumentDetail) ChatState() ChatPhase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.chatPhase
}

// LastError returns the failure that put the view in its current phase, or
// nil. Callers use it to tell a lost session apart from a classification
// failure.
func (d *DocumentDetail) LastError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

func (d *DocumentDetail) ChatError() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.chatError
}

func (d *DocumentDetail) Sending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sending
}

// Document returns a copy of the last fetched document, or nil before the
// first successful fetch.
func (d *DocumentDetail) Document() *domain.Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return nil
	}
	doc := *d.doc
	return &doc
}

func (d *DocumentDetail) Messages() []domain.ChatMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.ChatMessage(nil), d.messages...)
}

// PollerDone exposes the poll loop's completion channel for callers that
// need to wait for it to wind down. It is nil when no poller ever started.
func (d *DocumentDetail) PollerDone() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pollDone
}
