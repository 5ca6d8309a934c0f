// Package notify предоставляет клиент шлюза уведомлений о просрочках.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Client инкапсулирует HTTP-взаимодействие со шлюзом уведомлений.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
}

// OverdueNotice описывает уведомление о просроченном займе.
type OverdueNotice struct {
	TenantCode  string `json:"tenant_code"`
	LoanID      string `json:"loan_id"`
	Borrower    string `json:"borrower"`
	Phone       string `json:"phone,omitempty"`
	DaysLate    int    `json:"days_late"`
	Outstanding string `json:"outstanding"`
}

// NewClient создаёт HTTP-клиент для обращения к шлюзу уведомлений по указанному адресу.
func NewClient(baseURL string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil
	rc.HTTPClient.Timeout = 5 * time.Second

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: rc,
	}
}

// SendOverdueNotice отправляет уведомление о просроченном займе.
// Шлюз подтверждает приём статусом 200 или 202.
func (c *Client) SendOverdueNotice(ctx context.Context, notice OverdueNotice) error {
	if c == nil || c.baseURL == "" {
		return fmt.Errorf("notify client not configured")
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	body, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, base+"/api/notices/overdue", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return nil
}
