// Package sheets wraps the Google Sheets API as the record store backing
// the hosting workflow: full-range reads, row appends, and single-cell
// writes addressed as "<sheet>!<column><row>".
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Client struct {
	service     *sheets.Service
	spreadsheet string
}

// NewClient builds a sheets client against the given spreadsheet using a
// service-account credentials file.
func NewClient(ctx context.Context, credentialsFile, spreadsheetID string) (*Client, error) {
	service, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service:     service,
		spreadsheet: spreadsheetID,
	}, nil
}

// SpreadsheetID returns the spreadsheet this client reads and writes.
func (c *Client) SpreadsheetID() string {
	return c.spreadsheet
}

// ReadRange reads all values in range_ (e.g. "Sheet2!A:M").
func (c *Client) ReadRange(ctx context.Context, range_ string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheet, range_).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", range_, err)
	}

	return resp.Values, nil
}

// AppendRows appends rows after the last populated row of range_.
func (c *Client) AppendRows(ctx context.Context, range_ string, rows [][]interface{}) error {
	valueRange := &sheets.ValueRange{
		Values: rows,
	}

	_, err := c.service.Spreadsheets.Values.Append(c.spreadsheet, range_, valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append rows: %w", err)
	}

	return nil
}

// UpdateRange overwrites the cells in range_ with values.
func (c *Client) UpdateRange(ctx context.Context, range_ string, values [][]interface{}) error {
	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err := c.service.Spreadsheets.Values.Update(c.spreadsheet, range_, valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update range %s: %w", range_, err)
	}

	return nil
}

// UpdateCell writes a single cell. Writing the same value twice is a no-op
// in effect. Concurrent edits to the same cell are not detected; last
// writer wins.
func (c *Client) UpdateCell(ctx context.Context, cellRange string, value interface{}) error {
	return c.UpdateRange(ctx, cellRange, [][]interface{}{{value}})
}
