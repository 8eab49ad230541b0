package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/leapstack-labs/reportviewer/internal/record"
)

type userResponse struct {
	Data *record.Record `json:"data"`
}

type tablesResponse struct {
	Status  string   `json:"status"`
	Tables  []string `json:"tables"`
	Message string   `json:"message,omitempty"`
}

type queryResponse struct {
	Status  string          `json:"status"`
	Data    []record.Record `json:"data"`
	Message string          `json:"message,omitempty"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// GetUser fetches a single user record. A nil record with a nil error means
// the API does not know the user.
func (c *Client) GetUser(ctx context.Context, id string) (*record.Record, error) {
	if err := ValidateUserID(id); err != nil {
		return nil, err
	}

	var resp userResponse
	err := c.getJSON(ctx, "/api/user/"+url.PathEscape(id), nil, &resp)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if resp.Data == nil || resp.Data.Len() == 0 {
		return nil, nil
	}
	return resp.Data, nil
}

// ListTables fetches the names of the tables that can be browsed.
func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	var resp tablesResponse
	if err := c.getJSON(ctx, "/api/query/tables", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != StatusSuccess {
		return nil, &APIError{Status: resp.Status, Message: resp.Message}
	}
	if resp.Tables == nil {
		return []string{}, nil
	}
	return resp.Tables, nil
}

// QueryTable fetches every row the API returns for table. Null rows are
// dropped.
func (c *Client) QueryTable(ctx context.Context, table string) ([]record.Record, error) {
	var resp queryResponse
	if err := c.getJSON(ctx, "/api/query", url.Values{"table": {table}}, &resp); err != nil {
		return nil, err
	}
	if resp.Status != StatusSuccess {
		return nil, &APIError{Status: resp.Status, Message: resp.Message}
	}

	rows := make([]record.Record, 0, len(resp.Data))
	for _, row := range resp.Data {
		if row.Len() > 0 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// TestConnection asks the API to probe its database. It returns an *APIError
// when the API answered but the probe failed.
func (c *Client) TestConnection(ctx context.Context) error {
	var resp statusResponse
	if err := c.getJSON(ctx, "/api/db/test-connection", nil, &resp); err != nil {
		return err
	}
	if resp.Status != StatusSuccess {
		return &APIError{Status: resp.Status, Message: resp.Message}
	}
	return nil
}
