package manticore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	manticoresearch "github.com/manticoresoftware/manticoresearch-go"

	"github.com/terratensor/csvhelpers/internal/core/ports"
)

var _ ports.RecordIndex = (*ManticoreClient)(nil)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Imported records are stored as the raw field list (json attribute), the
// fields joined for full-text search, and the field count.
const createRecordsTableSQL = `CREATE TABLE IF NOT EXISTS %s (
        fields json,
        content text,
        field_count int
    )
    min_infix_len='2'`

type ManticoreClient struct {
	client *manticoresearch.APIClient
}

func NewClient(host string, port int, timeout time.Duration) (*ManticoreClient, error) {
	if host == "" {
		return nil, fmt.Errorf("manticore host is required")
	}

	configuration := manticoresearch.NewConfiguration()
	configuration.Servers = manticoresearch.ServerConfigurations{
		{
			URL: fmt.Sprintf("http://%s:%d", host, port),
		},
	}
	configuration.HTTPClient = &http.Client{
		Timeout: timeout,
	}

	return &ManticoreClient{
		client: manticoresearch.NewAPIClient(configuration),
	}, nil
}

// EnsureTable creates the records table if it does not exist yet.
func (c *ManticoreClient) EnsureTable(ctx context.Context, table string) error {
	if err := validateTableName(table); err != nil {
		return err
	}
	return c.execSQL(ctx, fmt.Sprintf(createRecordsTableSQL, table))
}

// BulkInsertRecords inserts all records with a single INSERT statement.
func (c *ManticoreClient) BulkInsertRecords(ctx context.Context, table string, records [][]string) error {
	if len(records) == 0 {
		return nil
	}
	if err := validateTableName(table); err != nil {
		return err
	}
	query, err := buildInsertSQL(table, records)
	if err != nil {
		return err
	}
	return c.execSQL(ctx, query)
}

// Count returns the number of documents in table.
func (c *ManticoreClient) Count(ctx context.Context, table string) (int64, error) {
	if err := validateTableName(table); err != nil {
		return 0, err
	}

	req := c.client.UtilsAPI.Sql(ctx).Body(fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
	req = req.RawResponse(true)

	resp, httpResp, err := c.client.UtilsAPI.SqlExecute(req)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	if httpResp != nil && httpResp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("count %s returned HTTP %d", table, httpResp.StatusCode)
	}
	if resp == nil || resp.SqlObjResponse == nil {
		return 0, nil
	}

	return countFromHits(resp.SqlObjResponse.GetHits()), nil
}

func (c *ManticoreClient) execSQL(ctx context.Context, query string) error {
	req := c.client.UtilsAPI.Sql(ctx).Body(query)
	req = req.RawResponse(true)

	resp, httpResp, err := c.client.UtilsAPI.SqlExecute(req)
	if err != nil {
		if httpResp != nil && httpResp.Body != nil {
			body, _ := io.ReadAll(httpResp.Body)
			return fmt.Errorf("failed to execute SQL: %w, response: %s", err, string(body))
		}
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	if httpResp != nil && httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("SQL returned HTTP %d", httpResp.StatusCode)
	}
	if resp != nil && resp.SqlObjResponse != nil {
		hits := resp.SqlObjResponse.GetHits()
		if sqlErr, ok := hits["error"]; ok && sqlErr != nil {
			return fmt.Errorf("SQL error: %v", sqlErr)
		}
	}
	return nil
}

func validateTableName(table string) error {
	if !tableNamePattern.MatchString(table) {
		return fmt.Errorf("invalid manticore table name %q", table)
	}
	return nil
}

func buildInsertSQL(table string, records [][]string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (fields, content, field_count) VALUES ", table)

	for i, record := range records {
		if record == nil {
			record = []string{}
		}
		raw, err := json.Marshal(record)
		if err != nil {
			return "", fmt.Errorf("failed to marshal record %d: %w", i+1, err)
		}
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "('%s', '%s', %d)",
			escapeString(string(raw)),
			escapeString(strings.Join(record, " ")),
			len(record),
		)
	}
	return b.String(), nil
}

// escapeString escapes a value for a single-quoted SphinxQL string literal.
func escapeString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return r.Replace(s)
}

func countFromHits(hits map[string]interface{}) int64 {
	data, ok := hits["data"].([]interface{})
	if !ok || len(data) == 0 {
		return 0
	}
	row, ok := data[0].(map[string]interface{})
	if !ok {
		return 0
	}
	switch v := row["count(*)"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}
