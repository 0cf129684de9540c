// Package export renders document collections into files the user can take
// out of the workspace.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ai4juris/juriscli/internal/core/domain"
)

const historySheet = "Documentos"

var historyHeader = []any{"ID", "Ficheiro", "Estado", "Etiquetas", "Páginas", "Enviado por", "Data"}

// History writes the given documents as a spreadsheet, one row per document
// in the order received, so a filtered and sorted view exports exactly as
// rendered.
func History(w io.Writer, docs []domain.Document) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(historySheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := f.SetSheetRow(historySheet, "A1", &historyHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, doc := range docs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		row := []any{
			doc.ID,
			displayName(doc),
			string(doc.EffectiveStatus()),
			strings.Join(doc.EffectiveLabels(), ", "),
			doc.PageCount,
			doc.UploadedBy,
			uploadDate(doc),
		}
		if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func displayName(doc domain.Document) string {
	if doc.Title != "" {
		return doc.Title
	}
	return doc.Filename
}

func uploadDate(doc domain.Document) string {
	t := doc.UploadTime()
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
