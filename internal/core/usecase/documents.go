package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/ai4juris/juriscli/internal/core/domain"
	"github.com/ai4juris/juriscli/internal/core/ports"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const defaultPageSize = 5

// FilterAll matches every value for the status and label filters.
const FilterAll = "all"

// DocumentPage is a rendered slice of the filtered collection.
type DocumentPage struct {
	Items      []domain.Document
	Total      int
	Page       int
	TotalPages int
}

// List holds a local document collection together with its search, filter,
// sort and pagination state. Filtering and sorting never touch the network;
// they rework the data already fetched.
type List struct {
	docs     []domain.Document
	search   string
	status   string
	label    string
	order    SortOrder
	page     int
	pageSize int
}

func newList(pageSize int) List {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return List{
		status:   FilterAll,
		label:    FilterAll,
		order:    SortDesc,
		page:     1,
		pageSize: pageSize,
	}
}

// Replace swaps in a freshly fetched collection and resets to the first page.
func (l *List) Replace(docs []domain.Document) {
	l.docs = append([]domain.Document(nil), docs...)
	l.page = 1
}

// Prepend inserts a just-created document at the head of the collection.
func (l *List) Prepend(doc domain.Document) {
	l.docs = append([]domain.Document{doc}, l.docs...)
}

// Update replaces the entry with the same ID, if present.
func (l *List) Update(doc domain.Document) {
	for i := range l.docs {
		if l.docs[i].ID == doc.ID {
			l.docs[i] = doc
			return
		}
	}
}

func (l *List) SetSearch(query string) {
	if query == l.search {
		return
	}
	l.search = query
	l.page = 1
}

func (l *List) SetStatus(status string) {
	if status == "" {
		status = FilterAll
	}
	if status == l.status {
		return
	}
	l.status = status
	l.page = 1
}

func (l *List) SetLabel(label string) {
	if label == "" {
		label = FilterAll
	}
	if label == l.label {
		return
	}
	l.label = label
	l.page = 1
}

func (l *List) SetSort(order SortOrder) {
	if order != SortAsc {
		order = SortDesc
	}
	if order == l.order {
		return
	}
	l.order = order
	l.page = 1
}

func (l *List) Sort() SortOrder { return l.order }

func (l *List) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	l.page = page
}

// LabelOptions returns the distinct labels across the whole collection,
// sorted, for populating the label filter.
func (l *List) LabelOptions() []string {
	seen := make(map[string]bool)
	options := make([]string, 0)
	for _, doc := range l.docs {
		for _, label := range doc.EffectiveLabels() {
			if label == "" || seen[label] {
				continue
			}
			seen[label] = true
			options = append(options, label)
		}
	}
	sort.Strings(options)
	return options
}

// View applies the current search, filters, sort and pagination and returns
// the resulting page. The requested page is clamped to the filtered total.
func (l *List) View() DocumentPage {
	filtered := l.filtered()
	sortDocuments(filtered, l.order)

	total := len(filtered)
	totalPages := (total + l.pageSize - 1) / l.pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page := l.page
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * l.pageSize
	end := start + l.pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return DocumentPage{
		Items:      filtered[start:end],
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}
}

// Filtered returns the whole filtered and sorted collection, ignoring
// pagination. Exports use it so the file matches the on-screen order.
func (l *List) Filtered() []domain.Document {
	docs := l.filtered()
	sortDocuments(docs, l.order)
	return docs
}

func (l *List) filtered() []domain.Document {
	query := strings.ToLower(strings.TrimSpace(l.search))
	out := make([]domain.Document, 0, len(l.docs))
	for _, doc := range l.docs {
		if query != "" &&
			!strings.Contains(strings.ToLower(doc.Title), query) &&
			!strings.Contains(strings.ToLower(doc.Filename), query) {
			continue
		}
		if l.status != FilterAll && string(doc.EffectiveStatus()) != l.status {
			continue
		}
		if l.label != FilterAll && !hasLabel(doc, l.label) {
			continue
		}
		out = append(out, doc)
	}
	return out
}

func hasLabel(doc domain.Document, label string) bool {
	for _, candidate := range doc.EffectiveLabels() {
		if candidate == label {
			return true
		}
	}
	return false
}

func sortDocuments(docs []domain.Document, order SortOrder) {
	sort.SliceStable(docs, func(i, j int) bool {
		ti, tj := docs[i].UploadTime(), docs[j].UploadTime()
		if order == SortAsc {
			return ti.Before(tj)
		}
		return tj.Before(ti)
	})
}

// DocumentBrowser is the personal document history: the user's own uploads
// fetched from the gateway and browsed through the embedded List.
type DocumentBrowser struct {
	api ports.DocumentAPI
	List
}

func NewDocumentBrowser(api ports.DocumentAPI) *DocumentBrowser {
	return &DocumentBrowser{api: api, List: newList(defaultPageSize)}
}

// Refresh re-fetches the personal history. On failure the previous
// collection is kept so the panel can keep rendering stale data.
func (b *DocumentBrowser) Refresh(ctx context.Context) error {
	docs, err := b.api.List(ctx)
	if err != nil {
		return err
	}
	b.Replace(docs)
	return nil
}
