package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/dtpr/internal/config"
)

// AirtableSource queries the Airtable REST API on every call. Each Select
// drains all pages before returning.
type AirtableSource struct {
	BaseURL  string
	BaseID   string
	APIKey   string
	PageSize int
	HTTP     *http.Client
	Logger   *zap.Logger
}

func NewAirtableSource(cfg config.AirtableConfig, hc *http.Client, logger *zap.Logger) *AirtableSource {
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout.Duration}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AirtableSource{
		BaseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		BaseID:   cfg.BaseID,
		APIKey:   cfg.APIKey,
		PageSize: cfg.PageSize,
		HTTP:     hc,
		Logger:   logger,
	}
}

type airtablePage struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

func (a *AirtableSource) Find(ctx context.Context, table Table, id string) (Record, error) {
	if err := checkQuery(table, nil); err != nil {
		return Record{}, err
	}
	if id == "" {
		return Record{}, fmt.Errorf("%s: empty id: %w", table, ErrNotFound)
	}
	records, err := a.Select(ctx, table, Eq(FieldID, id))
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, fmt.Errorf("%s %q: %w", table, id, ErrNotFound)
	}
	return records[0], nil
}

func (a *AirtableSource) Select(ctx context.Context, table Table, filter *Filter) ([]Record, error) {
	if err := checkQuery(table, filter); err != nil {
		return nil, err
	}

	formula := ""
	if filter != nil {
		formula = EqualityFormula(filter.Field, filter.Value)
	}

	var all []Record
	offset := ""
	pages := 0
	for {
		page, err := a.listPage(ctx, table, formula, offset)
		if err != nil {
			return nil, err
		}
		pages++
		all = append(all, page.Records...)
		if page.Offset == "" {
			break
		}
		offset = page.Offset
	}

	a.Logger.Debug("airtable select",
		zap.String("table", string(table)),
		zap.String("formula", formula),
		zap.Int("pages", pages),
		zap.Int("records", len(all)))

	// The formula comparison is not guaranteed to be byte-exact, so the
	// equality is checked again here.
	return applyFilter(all, filter), nil
}

func (a *AirtableSource) listPage(ctx context.Context, table Table, formula, offset string) (airtablePage, error) {
	u, err := a.tableURL(table)
	if err != nil {
		return airtablePage{}, err
	}
	q := url.Values{}
	if a.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(a.PageSize))
	}
	if formula != "" {
		q.Set("filterByFormula", formula)
	}
	if offset != "" {
		q.Set("offset", offset)
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return airtablePage{}, err
	}
	req.Header.Set("Authorization", "Bearer "+a.APIKey)
	req.Header.Set("Accept", "application/json")

	hc := a.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return airtablePage{}, fmt.Errorf("airtable %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return airtablePage{}, fmt.Errorf("airtable %s: status %d: %s", table, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var page airtablePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return airtablePage{}, fmt.Errorf("airtable %s: decode page: %w", table, err)
	}
	return page, nil
}

func (a *AirtableSource) tableURL(table Table) (string, error) {
	if a.BaseURL == "" || a.BaseID == "" {
		return "", fmt.Errorf("airtable base url or base id is empty")
	}
	return a.BaseURL + "/v0/" + url.PathEscape(a.BaseID) + "/" + url.PathEscape(string(table)), nil
}

// EqualityFormula renders a single-field equality as an Airtable formula.
func EqualityFormula(field, value string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return fmt.Sprintf("{%s} = '%s'", field, r.Replace(value))
}
