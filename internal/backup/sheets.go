package backup

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// SheetsClient pushes CSV dumps to the spreadsheet bridge endpoint. The
// bridge appends each dump as a tab of the configured spreadsheet.
type SheetsClient struct {
	endpoint      string
	apiKey        string
	spreadsheetID string
	timeout       time.Duration
	httpClient    *http.Client
	logger        *slog.Logger
}

func NewSheetsClient(endpoint, apiKey, spreadsheetID string, timeout time.Duration, logger *slog.Logger) *SheetsClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SheetsClient{
		endpoint:      endpoint,
		apiKey:        apiKey,
		spreadsheetID: spreadsheetID,
		timeout:       timeout,
		httpClient:    &http.Client{Timeout: timeout},
		logger:        logger,
	}
}

type pushPayload struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	Sheet         string `json:"sheet"`
	ContentType   string `json:"content_type"`
	Data          string `json:"data"`
}

func (c *SheetsClient) Push(ctx context.Context, table string, csvData []byte) error {
	payload := pushPayload{
		SpreadsheetID: c.spreadsheetID,
		Sheet:         table,
		ContentType:   "text/csv",
		Data:          base64.StdEncoding.EncodeToString(csvData),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling push payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("creating push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pushing %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("spreadsheet endpoint returned status %d for %s", resp.StatusCode, table)
	}

	c.logger.Info("table pushed to spreadsheet", "table", table, "bytes", len(csvData))
	return nil
}
