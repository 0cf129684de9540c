package bootstrap

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"log/slog"

	"github.com/ai4juris/juriscli/internal/config"
	"github.com/ai4juris/juriscli/internal/core/ports"
	"github.com/ai4juris/juriscli/internal/core/usecase"
	"github.com/ai4juris/juriscli/internal/notify"
	"github.com/ai4juris/juriscli/internal/observability/logging"
	"github.com/ai4juris/juriscli/internal/observability/metrics"
	"github.com/ai4juris/juriscli/internal/session"
	"github.com/ai4juris/juriscli/internal/workspace"
)

const serviceName = "juriscli"

// App wires the client together: session store, gateway services, the
// notification center and observability.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Session ports.SessionStore
	Notes   *notify.Center
	Metrics *metrics.ClientMetrics

	Auth      ports.AuthAPI
	Documents ports.DocumentAPI
	Chat      ports.ChatAPI
	Groups    ports.GroupAPI

	closeFn func()
}

func New(cfg config.Config) (*App, error) {
	logger := logging.New(serviceName, cfg.LogLevel, cfg.LogFormat)

	sessionPath := cfg.SessionPath
	if sessionPath == "" {
		path, err := session.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve session path: %w", err)
		}
		sessionPath = path
	}
	store := session.NewFileStore(sessionPath)

	clientMetrics := metrics.NewClientMetrics(serviceName)
	notes := notify.NewCenter(notify.WithSink(notify.WriterSink(os.Stderr)))

	client := workspace.New(cfg.APIBaseURL, store,
		workspace.WithLogger(logger),
		workspace.WithMetrics(clientMetrics),
	)

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Session: store,
		Notes:   notes,
		Metrics: clientMetrics,

		Auth:      workspace.NewAuthService(client),
		Documents: workspace.NewDocumentService(client),
		Chat:      workspace.NewChatService(client),
		Groups:    workspace.NewGroupService(client),
	}

	if cfg.MetricsPort != "" {
		app.closeFn = serveMetrics(logger, clientMetrics, cfg.MetricsPort)
	}
	return app, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// Accounts builds the sign-in/profile flow.
func (a *App) Accounts() *usecase.AccountFlow {
	return usecase.NewAccountFlow(a.Auth, a.Session, a.Notes)
}

// Browser builds the personal history view-model.
func (a *App) Browser() *usecase.DocumentBrowser {
	return usecase.NewDocumentBrowser(a.Documents)
}

// Detail builds the per-document orchestrator.
func (a *App) Detail(opts ...usecase.DetailOption) *usecase.DocumentDetail {
	base := []usecase.DetailOption{
		usecase.WithPollInterval(a.Config.PollInterval()),
		usecase.WithDetailLogger(a.Logger),
		usecase.WithDetailMetrics(a.Metrics),
	}
	return usecase.NewDocumentDetail(a.Documents, a.Chat, append(base, opts...)...)
}

// GroupPanel builds the group workspace view-model.
func (a *App) GroupPanel(confirm ports.Confirmer) *usecase.GroupPanel {
	return usecase.NewGroupPanel(a.Groups, a.Documents, a.Notes, confirm)
}

// Upload builds an upload workflow, optionally targeted at a group.
func (a *App) Upload(opts ...usecase.UploadOption) *usecase.UploadWorkflow {
	base := []usecase.UploadOption{usecase.WithUploadMetrics(a.Metrics)}
	return usecase.NewUploadWorkflow(a.Documents, a.Notes, append(base, opts...)...)
}

// serveMetrics exposes the Prometheus registry on its own listener and
// returns the shutdown hook.
func serveMetrics(logger *slog.Logger, m *metrics.ClientMetrics, port string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics_server_failed", "error", err)
		}
	}()
	return func() { _ = server.Close() }
}
