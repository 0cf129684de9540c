package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ai4juris/juriscli/internal/bootstrap"
	"github.com/ai4juris/juriscli/internal/core/domain"
	"github.com/ai4juris/juriscli/internal/core/usecase"
	"github.com/ai4juris/juriscli/internal/export"
)

func runDocs(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("docs", flag.ContinueOnError)
	search := fs.String("search", "", "filtrar por título ou nome do ficheiro")
	status := fs.String("status", "", "filtrar por estado (queued, processing, done, error)")
	label := fs.String("label", "", "filtrar por etiqueta")
	sortOrder := fs.String("sort", "desc", "ordenar por data (asc ou desc)")
	page := fs.Int("page", 1, "página")
	exportPath := fs.String("export", "", "exportar a vista filtrada para um ficheiro .xlsx")
	if err := fs.Parse(args); err != nil {
		return err
	}

	browser := app.Browser()
	if err := browser.Refresh(ctx); err != nil {
		return err
	}
	browser.SetSearch(*search)
	browser.SetStatus(*status)
	browser.SetLabel(*label)
	browser.SetSort(usecase.SortOrder(*sortOrder))
	browser.SetPage(*page)

	if *exportPath != "" {
		return exportHistory(*exportPath, browser.Filtered())
	}

	printDocumentPage(browser.View())
	return nil
}

func exportHistory(path string, docs []domain.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("criar %s: %w", path, err)
	}
	defer f.Close()
	if err := export.History(f, docs); err != nil {
		return err
	}
	fmt.Printf("Exportados %d documentos para %s\n", len(docs), path)
	return nil
}

func printDocumentPage(page usecase.DocumentPage) {
	if page.Total == 0 {
		fmt.Println("Sem documentos.")
		return
	}
	for _, doc := range page.Items {
		name := doc.Title
		if name == "" {
			name = doc.Filename
		}
		labels := strings.Join(doc.EffectiveLabels(), ", ")
		if labels == "" {
			labels = "-"
		}
		fmt.Printf("%6d  %-12s  %-40s  %s\n", doc.ID, doc.EffectiveStatus(), name, labels)
	}
	fmt.Printf("Página %d de %d (%d documentos)\n", page.Page, page.TotalPages, page.Total)
}

func runDoc(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("doc", flag.ContinueOnError)
	watch := fs.Bool("watch", false, "esperar enquanto a classificação decorre")
	chat := fs.Bool("chat", false, "abrir o chat do documento")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("uso: doc <id> [-watch -chat]")
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("id inválido: %s", fs.Arg(0))
	}

	detail := app.Detail()
	defer detail.Close()

	detail.Load(ctx, id)

	if detail.Phase() == usecase.PhasePending && *watch {
		fmt.Println("A classificar… (Ctrl-C para sair)")
		if done := detail.PollerDone(); done != nil {
			select {
			case <-done:
			case <-ctx.Done():
				return nil
			}
		}
	}

	if err := detail.LastError(); domain.IsKind(err, domain.ErrUnauthorized) {
		return err
	}

	printDetail(detail)

	if *chat && detail.ChatState() == usecase.ChatReady {
		return chatLoop(ctx, detail)
	}
	return nil
}

func printDetail(detail *usecase.DocumentDetail) {
	switch detail.Phase() {
	case usecase.PhaseNotFound:
		fmt.Println("Documento não encontrado.")
		return
	case usecase.PhaseError:
		doc := detail.Document()
		if doc != nil && doc.ErrorMsg != "" {
			fmt.Printf("A classificação falhou: %s\n", doc.ErrorMsg)
		} else {
			fmt.Println("A classificação falhou.")
		}
		return
	case usecase.PhasePending:
		fmt.Println("Documento ainda em processamento.")
		return
	}

	doc := detail.Document()
	if doc == nil {
		return
	}
	name := doc.Title
	if name == "" {
		name = doc.Filename
	}
	fmt.Printf("Documento %d — %s\n", doc.ID, name)
	labels := doc.EffectiveLabels()
	snippets := doc.Snippets()
	if len(labels) == 0 && len(snippets) == 0 {
		fmt.Println("Sem classificação disponível.")
		return
	}
	if len(labels) > 0 {
		fmt.Printf("Etiquetas: %s\n", strings.Join(labels, ", "))
	}
	if len(snippets) > 0 {
		fmt.Println("Porquê esta classificação:")
		for _, s := range snippets {
			fmt.Printf("  • %s\n", s)
		}
	}
}

// chatLoop reads questions from stdin until EOF or /sair.
func chatLoop(ctx context.Context, detail *usecase.DocumentDetail) error {
	for _, msg := range detail.Messages() {
		printChatMessage(msg)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "/sair" || line == "/exit" {
			return nil
		}

		before := len(detail.Messages())
		sent, err := detail.SendMessage(ctx, line)
		if err != nil {
			fmt.Printf("! %s\n", detail.ChatError())
			continue
		}
		if !sent {
			continue
		}
		for _, msg := range detail.Messages()[before:] {
			printChatMessage(msg)
		}
	}
}

func printChatMessage(msg domain.ChatMessage) {
	prefix := "tu"
	if msg.Role == domain.RoleAssistant {
		prefix = "assistente"
	}
	fmt.Printf("[%s] %s\n", prefix, msg.Text)
}

func runUpload(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	group := fs.Int64("group", 0, "enviar para o grupo com este id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("uso: upload <ficheiro.pdf> [-group id]")
	}

	opts := []usecase.UploadOption{
		usecase.WithOnCreated(func(doc domain.Document) {
			fmt.Printf("Documento %d em fila para classificação.\n", doc.ID)
		}),
	}
	if *group != 0 {
		opts = append(opts, usecase.WithUploadGroup(*group))
	}

	workflow := app.Upload(opts...)
	workflow.Open()
	if err := workflow.Select(fs.Arg(0)); err != nil {
		return err
	}
	if file := workflow.File(); file != nil {
		fmt.Printf("%s (%d páginas)\n", file.Name, file.Pages)
	}
	return workflow.Submit(ctx)
}
