package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aicodepro/landing-api/internal/entity"
)

const apiBase = "https://api.airtable.com/v0"

// Client talks to the marketing team's Airtable base. It doubles as the
// secondary lead store when Postgres is down: upsert semantics are emulated
// with a filterByFormula lookup followed by a create or an update.
type Client struct {
	apiKey string
	baseID string
	table  string
	http   *http.Client
}

func NewClient(apiKey, baseID, table string) *Client {
	return &Client{
		apiKey: apiKey,
		baseID: baseID,
		table:  table,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Name() string {
	return "airtable"
}

func (c *Client) UpsertLead(ctx context.Context, lead *entity.Lead) error {
	recordID, err := c.findRecordID(ctx, lead.Email)
	if err != nil {
		return err
	}

	fields := recordFields{
		Email:        lead.Email,
		Phone:        lead.Phone,
		IsProgrammer: lead.IsProgrammer,
		UTMSource:    lead.UTMSource,
		UTMMedium:    lead.UTMMedium,
		UTMCampaign:  lead.UTMCampaign,
	}

	if recordID == "" {
		return c.createRecord(ctx, fields)
	}
	return c.updateRecord(ctx, recordID, fields)
}

func (c *Client) findRecordID(ctx context.Context, email string) (string, error) {
	formula := url.QueryEscape(fmt.Sprintf("{email}=%q", email))
	endpoint := fmt.Sprintf("%s/%s/%s?filterByFormula=%s&maxRecords=1",
		apiBase, c.baseID, url.PathEscape(c.table), formula)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("airtable lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("airtable lookup (status %d): %s", resp.StatusCode, string(body))
	}

	var response listRecordsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("airtable lookup decode: %w", err)
	}

	if len(response.Records) == 0 {
		return "", nil
	}
	return response.Records[0].ID, nil
}

func (c *Client) createRecord(ctx context.Context, fields recordFields) error {
	endpoint := fmt.Sprintf("%s/%s/%s", apiBase, c.baseID, url.PathEscape(c.table))

	payload := createRecordRequest{
		Records: []recordEnvelope{{Fields: fields}},
	}

	return c.send(ctx, http.MethodPost, endpoint, payload)
}

func (c *Client) updateRecord(ctx context.Context, recordID string, fields recordFields) error {
	endpoint := fmt.Sprintf("%s/%s/%s/%s", apiBase, c.baseID, url.PathEscape(c.table), recordID)

	return c.send(ctx, http.MethodPatch, endpoint, updateRecordRequest{Fields: fields})
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload interface{}) error {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("airtable marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("airtable request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("airtable write (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}
