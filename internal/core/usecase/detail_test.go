package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ai4juris/juriscli/internal/core/domain"
)

func quietDetail(docs *fakeDocumentAPI, chat *fakeChatAPI) *DocumentDetail {
	return NewDocumentDetail(docs, chat, WithPollInterval(5*time.Millisecond))
}

func TestDetailPendingPollsUntilDoneThenOpensChatOnce(t *testing.T) {
	docs := &fakeDocumentAPI{}
	docs.getFn = func(call int, id int64) (*domain.Document, error) {
		if call < 3 {
			return &domain.Document{ID: id, Filename: "a.pdf", Status: "processing"}, nil
		}
		return &domain.Document{ID: id, Filename: "a.pdf", Status: "done", Labels: []string{"Fiscal"}}, nil
	}
	chat := &fakeChatAPI{}
	detail := quietDetail(docs, chat)

	detail.Load(context.Background(), 7)
	if got := detail.Phase(); got != PhasePending {
		t.Fatalf("Phase() = %q, want pending", got)
	}

	waitFor(t, time.Second, func() bool { return detail.Phase() == PhaseDone })
	waitFor(t, time.Second, func() bool { return detail.ChatState() == ChatReady })

	if chat.openCalls() != 1 {
		t.Fatalf("chat opens = %d, want 1", chat.openCalls())
	}
	messages := detail.Messages()
	if len(messages) != 1 || messages[0].Role != domain.RoleAssistant {
		t.Fatalf("messages = %+v, want single assistant greeting", messages)
	}
	if messages[0].Text != "Chat iniciado. Podes colocar perguntas sobre o documento." {
		t.Fatalf("greeting = %q", messages[0].Text)
	}

	// The poller must be fully stopped: no further fetches.
	if done := detail.PollerDone(); done != nil {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("poller still running after done status")
		}
	}
	settled := docs.gets()
	time.Sleep(30 * time.Millisecond)
	if docs.gets() != settled {
		t.Fatalf("fetches after settle: %d -> %d", settled, docs.gets())
	}
}

func TestDetailDoneImmediatelySkipsPolling(t *testing.T) {
	docs := &fakeDocumentAPI{docs: []domain.Document{{ID: 1, Filename: "a.pdf", State: "DONE"}}}
	chat := &fakeChatAPI{}
	detail := quietDetail(docs, chat)

	detail.Load(context.Background(), 1)

	if got := detail.Phase(); got != PhaseDone {
		t.Fatalf("Phase() = %q, want done", got)
	}
	if detail.PollerDone() != nil {
		t.Fatal("poller started for an already-done document")
	}
	if chat.openCalls() != 1 {
		t.Fatalf("chat opens = %d, want 1", chat.openCalls())
	}
}

func TestDetailNotFound(t *testing.T) {
	docs := &fakeDocumentAPI{}
	chat := &fakeChatAPI{}
	detail := quietDetail(docs, chat)

	detail.Load(context.Background(), 404)

	if got := detail.Phase(); got != PhaseNotFound {
		t.Fatalf("Phase() = %q, want not_found", got)
	}
	if chat.openCalls() != 0 {
		t.Fatal("chat opened for a missing document")
	}
}

func TestDetailLoadFailureNeverPolls(t *testing.T) {
	docs := &fakeDocumentAPI{}
	docs.getFn = func(int, int64) (*domain.Document, error) {
		return nil, errors.New("gateway down")
	}
	detail := quietDetail(docs, &fakeChatAPI{})

	detail.Load(context.Background(), 1)

	if got := detail.Phase(); got != PhaseError {
		t.Fatalf("Phase() = %q, want error", got)
	}
	if detail.PollerDone() != nil {
		t.Fatal("poller started after a failed load")
	}
}

func TestDetailErrorStatusStopsWithoutChat(t *testing.T) {
	docs := &fakeDocumentAPI{docs: []domain.Document{{ID: 1, Filename: "a.pdf", Status: "error", ErrorMsg: "ocr failed"}}}
	chat := &fakeChatAPI{}
	detail := quietDetail(docs, chat)

	detail.Load(context.Background(), 1)

	if got := detail.Phase(); got != PhaseError {
		t.Fatalf("Phase() = %q, want error", got)
	}
	if chat.openCalls() != 0 {
		t.Fatal("chat opened for a failed document")
	}
}

func TestDetailChatOpenFailureIsTerminal(t *testing.T) {
	docs := &fakeDocumentAPI{docs: []domain.Document{{ID: 1, Filename: "a.pdf", Status: "done"}}}
	chat := &fakeChatAPI{openErr: errors.New("llm offline")}
	detail := quietDetail(docs, chat)

	detail.Load(context.Background(), 1)

	if got := detail.ChatState(); got != ChatFailed {
		t.Fatalf("ChatState() = %q, want failed", got)
	}
	if detail.ChatError() == "" {
		t.Fatal("ChatError() empty after open failure")
	}

	sent, err := detail.SendMessage(context.Background(), "olá")
	if sent || err != nil {
		t.Fatalf("SendMessage() on failed chat = (%v, %v), want silent no-op", sent, err)
	}
	if chat.openCalls() != 1 {
		t.Fatalf("chat opens = %d, want no retry", chat.openCalls())
	}
}

func TestSendMessageBlankInputIsNoOp(t *testing.T) {
	docs := &fakeDocumentAPI{docs: []domain.Document{{ID: 1, Filename: "a.pdf", Status: "done"}}}
	chat := &fakeChatAPI{}
	detail := quietDetail(docs, chat)
	detail.Load(context.Background(), 1)

	sent, err := detail.SendMessage(context.Background(), "   \t ")
	if sent || err != nil {
		t.Fatalf("SendMessage(blank) = (%v, %v), want silent no-op", sent, err)
	}
	if len(chat.sent) != 0 {
		t.Fatalf("messages sent = %v, want none", chat.sent)
	}
}

func TestSendMessageAppendsBothSides(t *testing.T) {
	docs := &fakeDocumentAPI{docs: []domain.Document{{ID: 1, Filename: "a.pdf", Status: "done"}}}
	chat := &fakeChatAPI{}
	detail := quietDetail(docs, chat)
	detail.Load(context.Background(), 1)

	sent, err := detail.SendMessage(context.Background(), "  qual é o tema?  ")
	if !sent || err != nil {
		t.Fatalf("SendMessage() = (%v, %v)", sent, err)
	}

	messages := detail.Messages()
	if len(messages) != 3 {
		t.Fatalf("len(messages) = %d, want greeting + question + reply", len(messages))
	}
	if messages[1].Role != domain.RoleUser || messages[1].Text != "qual é o tema?" {
		t.Fatalf("user message = %+v", messages[1])
	}
	if messages[2].Role != domain.RoleAssistant || messages[2].Text != "resposta" {
		t.Fatalf("assistant message = %+v", messages[2])
	}
}

func TestSendMessageFailureKeepsUserMessage(t *testing.T) {
	docs := &fakeDocumentAPI{docs: []domain.Document{{ID: 1, Filename: "a.pdf", Status: "done"}}}
	chat := &fakeChatAPI{sendFn: func(string) (string, error) { return "", errors.New("llm timeout") }}
	detail := quietDetail(docs, chat)
	detail.Load(context.Background(), 1)

	sent, err := detail.SendMessage(context.Background(), "pergunta")
	if !sent || err == nil {
		t.Fatalf("SendMessage() = (%v, %v), want issued request with error", sent, err)
	}

	messages := detail.Messages()
	if len(messages) != 2 || messages[1].Text != "pergunta" {
		t.Fatalf("messages = %+v, want user message kept", messages)
	}
	if detail.ChatError() == "" {
		t.Fatal("ChatError() empty after send failure")
	}

	// A later send clears the stale error.
	chat.sendFn = nil
	if _, err := detail.SendMessage(context.Background(), "outra"); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if detail.ChatError() != "" {
		t.Fatalf("ChatError() = %q after successful send", detail.ChatError())
	}
}

func TestSendMessageWhileInFlightIsNoOp(t *testing.T) {
	docs := &fakeDocumentAPI{docs: []domain.Document{{ID: 1, Filename: "a.pdf", Status: "done"}}}
	release := make(chan struct{})
	entered := make(chan struct{})
	chat := &fakeChatAPI{sendFn: func(string) (string, error) {
		close(entered)
		<-release
		return "resposta", nil
	}}
	detail := quietDetail(docs, chat)
	detail.Load(context.Background(), 1)

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		detail.SendMessage(context.Background(), "primeira")
	}()
	<-entered

	sent, err := detail.SendMessage(context.Background(), "segunda")
	if sent || err != nil {
		t.Fatalf("SendMessage() while busy = (%v, %v), want silent no-op", sent, err)
	}

	close(release)
	<-firstDone
	if len(chat.sent) != 1 {
		t.Fatalf("messages sent = %v, want only the first", chat.sent)
	}
}

func TestDetailReloadStopsPreviousPoller(t *testing.T) {
	docs := &fakeDocumentAPI{}
	docs.getFn = func(_ int, id int64) (*domain.Document, error) {
		if id == 1 {
			return &domain.Document{ID: 1, Filename: "a.pdf", Status: "processing"}, nil
		}
		return nil, errors.New("gateway down")
	}
	detail := quietDetail(docs, &fakeChatAPI{})

	detail.Load(context.Background(), 1)
	if got := detail.Phase(); got != PhasePending {
		t.Fatalf("Phase() = %q, want pending", got)
	}
	oldDone := detail.PollerDone()
	if oldDone == nil {
		t.Fatal("no poller after pending load")
	}

	detail.Load(context.Background(), 2)
	if got := detail.Phase(); got != PhaseError {
		t.Fatalf("Phase() after failed reload = %q, want error", got)
	}
	select {
	case <-oldDone:
	case <-time.After(time.Second):
		t.Fatal("previous poller still running after reload")
	}
	if detail.PollerDone() != nil {
		t.Fatal("failed reload left a poller handle behind")
	}
	settled := docs.gets()
	time.Sleep(30 * time.Millisecond)
	if docs.gets() != settled {
		t.Fatalf("fetches after failed reload: %d -> %d", settled, docs.gets())
	}
}

func TestDetailPollSessionLossSurfacesUnauthorized(t *testing.T) {
	docs := &fakeDocumentAPI{}
	docs.getFn = func(call int, id int64) (*domain.Document, error) {
		if call == 1 {
			return &domain.Document{ID: id, Filename: "a.pdf", Status: "processing"}, nil
		}
		return nil, domain.WrapError(domain.ErrUnauthorized, "get document", errors.New("401"))
	}
	detail := quietDetail(docs, &fakeChatAPI{})

	detail.Load(context.Background(), 1)
	waitFor(t, time.Second, func() bool { return detail.Phase() == PhaseError })

	if done := detail.PollerDone(); done != nil {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("poller still running after session loss")
		}
	}
	if !domain.IsKind(detail.LastError(), domain.ErrUnauthorized) {
		t.Fatalf("LastError() = %v, want unauthorized kind", detail.LastError())
	}
}

func TestCloseShutsChatSessionBestEffort(t *testing.T) {
	docs := &fakeDocumentAPI{docs: []domain.Document{{ID: 1, Filename: "a.pdf", Status: "done"}}}
	chat := &fakeChatAPI{closeErr: errors.New("already gone")}
	detail := quietDetail(docs, chat)
	detail.Load(context.Background(), 1)

	detail.Close()
	if len(chat.closed) != 1 || chat.closed[0] != "sess-1" {
		t.Fatalf("closed sessions = %v, want [sess-1]", chat.closed)
	}

	// Closing again must not re-send: the session handle is gone.
	detail.Close()
	if len(chat.closed) != 1 {
		t.Fatalf("closed sessions = %v after second Close", chat.closed)
	}
}
