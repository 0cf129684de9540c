package workspace

import (
	"context"
	"fmt"
	"io"

	"github.com/ai4juris/juriscli/internal/core/domain"
)

type DocumentService struct {
	client *Client
}

func NewDocumentService(client *Client) *DocumentService {
	return &DocumentService{client: client}
}

func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	var docs []domain.Document
	if err := s.client.getJSON(ctx, "/documents/", &docs, "list documents"); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *DocumentService) Get(ctx context.Context, id int64) (*domain.Document, error) {
	var doc domain.Document
	if err := s.client.getJSON(ctx, fmt.Sprintf("/documents/%d/", id), &doc, "fetch document"); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *DocumentService) Upload(ctx context.Context, filename string, file io.Reader) (*domain.Document, error) {
	var doc domain.Document
	if err := s.client.postMultipart(ctx, "/documents/upload/", filename, file, &doc, "upload document"); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *DocumentService) GroupDocuments(ctx context.Context, groupID int64) ([]domain.Document, error) {
	var docs []domain.Document
	if err := s.client.getJSON(ctx, fmt.Sprintf("/groups/%d/documents/", groupID), &docs, "list group documents"); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *DocumentService) UploadToGroup(ctx context.Context, groupID int64, filename string, file io.Reader) (*domain.Document, error) {
	var doc domain.Document
	path := fmt.Sprintf("/groups/%d/documents/upload/", groupID)
	if err := s.client.postMultipart(ctx, path, filename, file, &doc, "upload group document"); err != nil {
		return nil, err
	}
	return &doc, nil
}
