package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rshade/productsummary/internal/fee"
	"github.com/rshade/productsummary/internal/logging"
	"github.com/rshade/productsummary/internal/summary"
)

const maxErrorBody = 1 << 10

// Client talks to a productsummary HTTP API. It implements both
// summary.CaseRecordSource and summary.ProductService.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for baseURL. timeout bounds each request;
// zero means no client-side timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// wireSummary accepts atmFee as a number, numeric string or null.
type wireSummary struct {
	ProductName         string  `json:"productName"`
	MonthlyCost         float64 `json:"monthlyCost"`
	ATMFee              any     `json:"atmFee"`
	CardReplacementCost float64 `json:"cardReplacementCost"`
	CountryCode         string  `json:"countryCode"`
	IsDefault           bool    `json:"isDefault"`
}

func (w wireSummary) toSummary() *summary.ProductSummary {
	s := &summary.ProductSummary{
		ProductName:         w.ProductName,
		MonthlyCost:         w.MonthlyCost,
		CardReplacementCost: w.CardReplacementCost,
		CountryCode:         w.CountryCode,
		IsDefault:           w.IsDefault,
	}
	if v, ok := fee.ToFloat(w.ATMFee); ok {
		s.ATMFee = &v
	}
	return s
}

// FetchCase implements summary.CaseRecordSource.
func (c *Client) FetchCase(ctx context.Context, caseID string) (*summary.CaseRecord, error) {
	if caseID == "" {
		return nil, summary.ErrEmptyCaseID
	}

	resp, err := c.get(ctx, casesPath+"/"+url.PathEscape(caseID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("case %q: %w", caseID, summary.ErrCaseNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, statusError(resp)
	}

	var record summary.CaseRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to parse case response: %w", err)
	}
	return &record, nil
}

// FetchProductSummary implements summary.ProductService.
func (c *Client) FetchProductSummary(ctx context.Context, contactID summary.ContactID) (*summary.ProductSummary, error) {
	if contactID == "" {
		return nil, summary.ErrEmptyContactID
	}

	resp, err := c.get(ctx, contactsPath+"/"+url.PathEscape(string(contactID))+summarySuffix)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil, nil //nolint:nilnil // No product is a valid answer.
	case http.StatusOK:
	default:
		return nil, statusError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read product summary response: %w", err)
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil //nolint:nilnil // No product is a valid answer.
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var w wireSummary
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("failed to parse product summary response: %w", err)
	}
	return w.toSummary(), nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if traceID := logging.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set(logging.TraceIDMetadataKey, traceID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "httpapi").
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend request completed")
	return resp, nil
}

func statusError(resp *http.Response) error {
	var body errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("backend returned status %d", resp.StatusCode)
}
