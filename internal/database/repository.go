package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for repository operations.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrDatabaseError = errors.New("database error")
)

// Repository provides typed access to Supabase tables. Domain packages
// embed it behind their own repository types.
type Repository struct {
	client *Client
}

// NewRepository creates a repository over a Supabase client.
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// ValidateUserID rejects empty or malformed user references.
func ValidateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user_id cannot be empty", ErrInvalidInput)
	}
	return nil
}

// Insert inserts one record into a table and decodes the returned
// representation into out when out is non-nil.
func (r *Repository) Insert(ctx context.Context, table string, record, out interface{}) error {
	data, err := r.client.request(ctx, http.MethodPost, table, record, "")
	if err != nil {
		return fmt.Errorf("%w: insert %s: %v", ErrDatabaseError, table, err)
	}
	if out == nil {
		return nil
	}
	return decodeFirstRow(data, table, out)
}

// Update patches records matching the query and decodes the first returned
// row into out when out is non-nil.
func (r *Repository) Update(ctx context.Context, table string, record, out interface{}, query string) error {
	data, err := r.client.request(ctx, http.MethodPatch, table, record, query)
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", ErrDatabaseError, table, err)
	}
	if out == nil {
		return nil
	}
	return decodeFirstRow(data, table, out)
}

// Select lists records matching the query into dest (a pointer to a slice).
func (r *Repository) Select(ctx context.Context, table, query string, dest interface{}) error {
	data, err := r.client.request(ctx, http.MethodGet, table, nil, query)
	if err != nil {
		return fmt.Errorf("%w: select %s: %v", ErrDatabaseError, table, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: unmarshal %s: %v", ErrDatabaseError, table, err)
	}
	return nil
}

// Delete removes records matching the query.
func (r *Repository) Delete(ctx context.Context, table, query string) error {
	if _, err := r.client.request(ctx, http.MethodDelete, table, nil, query); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrDatabaseError, table, err)
	}
	return nil
}

// decodeFirstRow unmarshals the first element of a PostgREST representation
// array. PostgREST returns an array even for single-row writes.
func decodeFirstRow(data []byte, table string, out interface{}) error {
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("%w: unmarshal %s: %v", ErrDatabaseError, table, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, table)
	}
	if err := json.Unmarshal(rows[0], out); err != nil {
		return fmt.Errorf("%w: unmarshal %s row: %v", ErrDatabaseError, table, err)
	}
	return nil
}
