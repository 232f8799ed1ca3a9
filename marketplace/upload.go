// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
)

// Upload describes a file to attach to a project. Content is streamed
// — the whole file is never buffered in memory.
type Upload struct {
	// Filename is the name presented to the server. The server
	// stores its own timestamped copy; this is the display name.
	Filename string

	// ContentType is the MIME type of the file. Optional; the
	// multipart part defaults to application/octet-stream.
	ContentType string

	// Content is the file data. Read exactly once.
	Content io.Reader

	// FinalDelivery marks the file as the project's final delivery.
	FinalDelivery bool
}

// UploadFile attaches a file to a project. The request is a multipart
// body with a binary "file" part and an "is_final_delivery" field.
// Upload eligibility (employer, assigned executor, admin) is enforced
// server-side; the policy package provides the matching UI gate.
func (s *Session) UploadFile(ctx context.Context, projectID int64, upload Upload) (*FileUpload, error) {
	if upload.Filename == "" {
		return nil, fmt.Errorf("marketplace: upload filename is required")
	}
	if upload.Content == nil {
		return nil, fmt.Errorf("marketplace: upload content is required")
	}

	bodyReader, bodyWriter := io.Pipe()
	form := multipart.NewWriter(bodyWriter)

	// The form is written from a goroutine so the HTTP transport can
	// stream it. Any write error is carried to the reading side
	// through CloseWithError and surfaces as the request error.
	go func() {
		err := writeUploadForm(form, upload)
		if closeErr := form.Close(); err == nil {
			err = closeErr
		}
		bodyWriter.CloseWithError(err)
	}()

	responseBody, err := s.client.doRequestRaw(ctx, http.MethodPost,
		projectPath(projectID)+"/files", s.accessToken, form.FormDataContentType(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("marketplace: upload to project %d failed: %w", projectID, err)
	}

	var uploaded FileUpload
	if err := json.Unmarshal(responseBody, &uploaded); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse upload response: %w", err)
	}

	s.client.logger.Info("uploaded project file",
		"project_id", projectID,
		"filename", uploaded.Filename,
		"final_delivery", uploaded.IsFinalDelivery,
	)
	return &uploaded, nil
}

func writeUploadForm(form *multipart.Writer, upload Upload) error {
	var part io.Writer
	var err error
	if upload.ContentType != "" {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{
			`form-data; name="file"; filename="` + escapeQuotes(upload.Filename) + `"`,
		}
		header["Content-Type"] = []string{upload.ContentType}
		part, err = form.CreatePart(header)
	} else {
		part, err = form.CreateFormFile("file", upload.Filename)
	}
	if err != nil {
		return fmt.Errorf("creating file part: %w", err)
	}
	if _, err := io.Copy(part, upload.Content); err != nil {
		return fmt.Errorf("streaming file content: %w", err)
	}
	if err := form.WriteField("is_final_delivery", strconv.FormatBool(upload.FinalDelivery)); err != nil {
		return fmt.Errorf("writing delivery flag: %w", err)
	}
	return nil
}

// escapeQuotes matches the quoting mime/multipart applies to
// filenames in Content-Disposition headers.
func escapeQuotes(s string) string {
	quoted := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' || s[i] == '"' {
			quoted = append(quoted, '\\')
		}
		quoted = append(quoted, s[i])
	}
	return string(quoted)
}
