package usecase

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ai4juris/juriscli/internal/core/domain"
	"github.com/ai4juris/juriscli/internal/core/ports"
	"github.com/ai4juris/juriscli/internal/observability/metrics"
)

// SelectedFile is a locally validated PDF staged for upload.
type SelectedFile struct {
	Path  string
	Name  string
	Pages int
}

// UploadWorkflow stages a single PDF for upload, either into the personal
// history or into a group. An invalid selection never reaches the network;
// a failed upload keeps the surface open with the selection intact.
type UploadWorkflow struct {
	api       ports.DocumentAPI
	notes     ports.Notifier
	metrics   *metrics.ClientMetrics
	groupID   int64 // 0 uploads into the personal history
	onCreated func(domain.Document)

	inspect  func(path string) (int, error)
	openFile func(path string) (io.ReadCloser, error)

	file      *SelectedFile
	open      bool
	uploading bool
}

type UploadOption func(*UploadWorkflow)

// WithUploadGroup targets the workflow at a group's shared history.
func WithUploadGroup(groupID int64) UploadOption {
	return func(w *UploadWorkflow) { w.groupID = groupID }
}

// WithOnCreated installs a hook receiving the created document, typically to
// prepend it into the visible list.
func WithOnCreated(fn func(domain.Document)) UploadOption {
	return func(w *UploadWorkflow) { w.onCreated = fn }
}

func WithUploadMetrics(m *metrics.ClientMetrics) UploadOption {
	return func(w *UploadWorkflow) { w.metrics = m }
}

func NewUploadWorkflow(api ports.DocumentAPI, notes ports.Notifier, opts ...UploadOption) *UploadWorkflow {
	w := &UploadWorkflow{
		api:     api,
		notes:   notes,
		inspect: pdfPageCount,
		openFile: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *UploadWorkflow) Open()        { w.open = true }
func (w *UploadWorkflow) IsOpen() bool { return w.open }

// Dismiss closes the surface and drops any staged file.
func (w *UploadWorkflow) Dismiss() {
	w.open = false
	w.file = nil
}

func (w *UploadWorkflow) File() *SelectedFile { return w.file }

// Select validates the file locally before it can be submitted: the
// extension must be .pdf and the file must parse as a PDF. A rejected file
// clears any previous selection and nothing is sent.
func (w *UploadWorkflow) Select(path string) error {
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		w.file = nil
		w.notes.Error("Formato inválido. O ficheiro tem de ser PDF.")
		return domain.WrapError(domain.ErrInvalidInput, "select file", errors.New("not a pdf"))
	}
	pages, err := w.inspect(path)
	if err != nil {
		w.file = nil
		w.notes.Error("Não foi possível ler o PDF.")
		return domain.WrapError(domain.ErrInvalidInput, "select file", err)
	}
	w.file = &SelectedFile{Path: path, Name: filepath.Base(path), Pages: pages}
	return nil
}

// Submit uploads the staged file. With no staged file or an upload already
// in flight it is a no-op. Success hands the created document to the
// onCreated hook and closes the surface; failure leaves everything in place
// for a manual retry.
func (w *UploadWorkflow) Submit(ctx context.Context) error {
	if w.file == nil || w.uploading {
		return nil
	}
	w.uploading = true
	defer func() { w.uploading = false }()

	f, err := w.openFile(w.file.Path)
	if err != nil {
		w.notes.Error("Não foi possível abrir o ficheiro.")
		return domain.WrapError(domain.ErrInvalidInput, "open file", err)
	}
	defer f.Close()

	var doc *domain.Document
	if w.groupID != 0 {
		doc, err = w.api.UploadToGroup(ctx, w.groupID, w.file.Name, f)
	} else {
		doc, err = w.api.Upload(ctx, w.file.Name, f)
	}
	w.metrics.RecordUpload(serviceName, err == nil)
	if err != nil {
		w.notes.Error(domain.UserMessage(err, "Erro ao enviar documento."))
		return err
	}

	if w.onCreated != nil {
		w.onCreated(*doc)
	}
	w.file = nil
	w.open = false
	if w.groupID != 0 {
		w.notes.Success("Documento enviado para o grupo.")
	} else {
		w.notes.Success("Documento enviado.")
	}
	return nil
}

// pdfPageCount opens the file with the PDF parser and reports its page
// count, rejecting files that are not well-formed PDFs.
func pdfPageCount(path string) (int, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return reader.NumPage(), nil
}
