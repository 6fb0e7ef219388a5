package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"mediadex/internal/models"
)

// File is a stored file reference
type File struct {
	ID     string `json:"$id"`
	Name   string `json:"name"`
	Bucket string `json:"bucketId"`
}

// CreateFile uploads content into a storage bucket and returns the stored
// file reference
func (c *Client) CreateFile(ctx context.Context, bucketID, fileID, filename string, content []byte) (*File, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("fileId", fileID); err != nil {
		return nil, fmt.Errorf("failed to write file ID field: %w", err)
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	fullURL := c.endpoint + "/storage/buckets/" + url.PathEscape(bucketID) + "/files"
	req, err := http.NewRequestWithContext(ctx, "POST", fullURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Appwrite-Project", c.projectID)
	if session, err := c.sessionStore.GetSession(); err == nil && session != nil {
		req.Header.Set("X-Appwrite-Session", session.Secret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("file upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &models.StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(bodyBytes),
		}
	}

	var file File
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode file response: %w", err)
	}

	return &file, nil
}

// FileViewURL derives the public view URL for a stored file
func (c *Client) FileViewURL(bucketID, fileID string) string {
	return fmt.Sprintf("%s/storage/buckets/%s/files/%s/view?project=%s",
		c.endpoint, url.PathEscape(bucketID), url.PathEscape(fileID), url.QueryEscape(c.projectID))
}

// InitialsAvatarURL derives the generated-initials avatar URL for a name
func (c *Client) InitialsAvatarURL(name string) string {
	return fmt.Sprintf("%s/avatars/initials?name=%s&project=%s",
		c.endpoint, url.QueryEscape(name), url.QueryEscape(c.projectID))
}
