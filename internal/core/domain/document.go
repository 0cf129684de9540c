package domain

import (
	"strings"
	"time"
)

type DocumentStatus string

const (
	StatusQueued     DocumentStatus = "queued"
	StatusProcessing DocumentStatus = "processing"
	StatusDone       DocumentStatus = "done"
	StatusError      DocumentStatus = "error"
	StatusPending    DocumentStatus = "pending"
)

// IsPending reports whether the classification pipeline is still working on
// the document, i.e. a re-fetch may observe a newer status.
func (s DocumentStatus) IsPending() bool {
	return s == StatusQueued || s == StatusProcessing
}

type Explanation struct {
	TextSpan    string  `json:"text_span"`
	StartOffset int     `json:"start_offset,omitempty"`
	EndOffset   int     `json:"end_offset,omitempty"`
	Score       float64 `json:"score"`
}

type Prediction struct {
	Descriptor   string        `json:"descriptor"`
	Score        float64       `json:"score"`
	Explanations []Explanation `json:"explanations,omitempty"`
}

// Document is the classification record as served by the workspace API.
// Older API variants report the lifecycle under "state", newer ones under
// "status"; both are kept and resolved through EffectiveStatus.
type Document struct {
	ID             int64        `json:"id"`
	Filename       string       `json:"filename"`
	Title          string       `json:"title,omitempty"`
	State          string       `json:"state,omitempty"`
	Status         string       `json:"status,omitempty"`
	Labels         []string     `json:"labels,omitempty"`
	Classification string       `json:"classification,omitempty"`
	Predictions    []Prediction `json:"predictions,omitempty"`
	Justification  string       `json:"justification,omitempty"`
	FileURL        string       `json:"file_url,omitempty"`
	GroupID        int64        `json:"group_id,omitempty"`
	UploadedBy     string       `json:"uploaded_by,omitempty"`
	PageCount      int          `json:"page_count,omitempty"`
	ErrorMsg       string       `json:"error_msg,omitempty"`
	CreatedAt      time.Time    `json:"created_at,omitzero"`
	UploadedAt     time.Time    `json:"uploaded_at,omitzero"`
	UpdatedAt      time.Time    `json:"updated_at,omitzero"`
}

// EffectiveStatus resolves the state/status split: "state" wins when both
// are present, comparison is case-insensitive, and an absent value defaults
// to pending.
func (d Document) EffectiveStatus() DocumentStatus {
	raw := d.State
	if raw == "" {
		raw = d.Status
	}
	if raw == "" {
		return StatusPending
	}
	return DocumentStatus(strings.ToLower(raw))
}

// UploadTime returns created_at falling back to uploaded_at. A document with
// neither sorts as the epoch.
func (d Document) UploadTime() time.Time {
	if !d.CreatedAt.IsZero() {
		return d.CreatedAt
	}
	return d.UploadedAt
}

// EffectiveLabels resolves the label fallback chain: explicit labels, then a
// single legacy classification value, then prediction descriptors.
func (d Document) EffectiveLabels() []string {
	if len(d.Labels) > 0 {
		return d.Labels
	}
	if d.Classification != "" {
		return []string{d.Classification}
	}
	labels := make([]string, 0, len(d.Predictions))
	for _, p := range d.Predictions {
		if p.Descriptor != "" {
			labels = append(labels, p.Descriptor)
		}
	}
	return labels
}

const maxSnippets = 3

// Snippets collects the justification and explanation text spans supporting
// the classification, de-duplicated in input order and capped at three.
func (d Document) Snippets() []string {
	seen := make(map[string]bool)
	collected := make([]string, 0, maxSnippets)

	add := func(s string) {
		if s == "" || seen[s] || len(collected) >= maxSnippets {
			return
		}
		seen[s] = true
		collected = append(collected, s)
	}

	add(d.Justification)
	for _, p := range d.Predictions {
		for _, ex := range p.Explanations {
			add(ex.TextSpan)
		}
	}
	return collected
}
