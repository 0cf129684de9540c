package workspace

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// postMultipart submits a document upload form with the file and its name.
// The multipart boundary content type replaces the JSON default.
func (c *Client) postMultipart(ctx context.Context, path, filename string, file io.Reader, out any, operation string) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("build %s form: %w", operation, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read %s file: %w", operation, err)
	}
	if err := form.WriteField("filename", filename); err != nil {
		return fmt.Errorf("build %s form: %w", operation, err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("finish %s form: %w", operation, err)
	}

	return c.do(ctx, requestSpec{
		method:      http.MethodPost,
		path:        path,
		body:        &buf,
		contentType: form.FormDataContentType(),
		operation:   operation,
	}, out)
}
