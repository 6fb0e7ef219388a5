package appwrite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"mediadex/internal/models"
)

// Query builds backend query strings for document listing
type Query struct{}

// Queries is the query string builder
var Queries Query

// Equal matches documents whose attribute equals the value
func (Query) Equal(attribute, value string) string {
	return fmt.Sprintf("equal(%q, [%q])", attribute, value)
}

// Limit caps the number of returned documents
func (Query) Limit(n int) string {
	return "limit(" + strconv.Itoa(n) + ")"
}

// OrderDesc orders results by the attribute, descending
func (Query) OrderDesc(attribute string) string {
	return fmt.Sprintf("orderDesc(%q)", attribute)
}

// DocumentList is the raw page of documents returned by a list call
type DocumentList struct {
	Total     int64             `json:"total"`
	Documents []json.RawMessage `json:"documents"`
}

func (c *Client) collectionPath(collectionID string) string {
	return "/databases/" + url.PathEscape(c.databaseID) + "/collections/" + url.PathEscape(collectionID) + "/documents"
}

// CreateDocument creates a document with the given ID in a collection and
// decodes the stored document into result
func (c *Client) CreateDocument(ctx context.Context, collectionID, documentID string, data interface{}, result interface{}) error {
	body := map[string]interface{}{
		"documentId": documentID,
		"data":       data,
	}

	if err := c.doRequest(ctx, "POST", c.collectionPath(collectionID), body, result); err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// UpdateDocument patches an existing document's data
func (c *Client) UpdateDocument(ctx context.Context, collectionID, documentID string, data interface{}, result interface{}) error {
	body := map[string]interface{}{
		"data": data,
	}

	path := c.collectionPath(collectionID) + "/" + url.PathEscape(documentID)
	if err := c.doRequest(ctx, "PATCH", path, body, result); err != nil {
		if isNotFoundStatus(err) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to update document: %w", err)
	}

	return nil
}

// DeleteDocument removes a document by its store-assigned identifier
func (c *Client) DeleteDocument(ctx context.Context, collectionID, documentID string) error {
	path := c.collectionPath(collectionID) + "/" + url.PathEscape(documentID)
	if err := c.doRequest(ctx, "DELETE", path, nil, nil); err != nil {
		if isNotFoundStatus(err) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}

// ListDocuments lists documents in a collection matching the given queries
func (c *Client) ListDocuments(ctx context.Context, collectionID string, queries []string) (*DocumentList, error) {
	params := url.Values{}
	for _, q := range queries {
		params.Add("queries[]", q)
	}

	path := c.collectionPath(collectionID)
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var list DocumentList
	if err := c.doRequest(ctx, "GET", path, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return &list, nil
}

// DecodeDocuments unmarshals every raw document in the list into values of T
func DecodeDocuments[T any](list *DocumentList) ([]T, error) {
	out := make([]T, 0, len(list.Documents))
	for _, raw := range list.Documents {
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		out = append(out, doc)
	}
	return out, nil
}

func isNotFoundStatus(err error) bool {
	var se *models.StatusError
	return errors.As(err, &se) && se.StatusCode == 404
}
