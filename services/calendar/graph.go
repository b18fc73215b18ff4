package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"schedulify/config"
	"schedulify/utils"

	"go.uber.org/zap"
)

// API is the narrow Microsoft Graph surface the scheduling and booking
// services consume.
type API interface {
	ListDayView(ctx context.Context, token string, startUTC, endUTC time.Time, timezone string) ([]Event, error)
	CreateEvent(ctx context.Context, token string, draft EventDraft) (*EventRef, error)
	SendMail(ctx context.Context, token string, mail Mail) error
}

// requestTimeout bounds every remote calendar call; a slow read must not hang
// the booking page.
const requestTimeout = 20 * time.Second

var (
	sharedHTTPClient *http.Client
	httpClientOnce   sync.Once
)

// graphHTTPClient returns the process-wide HTTP client, created once and
// reused for every Graph call.
func graphHTTPClient() *http.Client {
	httpClientOnce.Do(func() {
		sharedHTTPClient = &http.Client{Timeout: requestTimeout}
	})
	return sharedHTTPClient
}

// GraphClient implements API against the Microsoft Graph REST endpoint.
type GraphClient struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *zap.Logger
}

// NewGraphClient creates a Graph client for the configured endpoint.
func NewGraphClient() *GraphClient {
	return &GraphClient{
		BaseURL: config.AppConfig.GraphBaseURL,
		HTTP:    graphHTTPClient(),
		Logger:  utils.GetLogger(),
	}
}

const graphTimeLayout = "2006-01-02T15:04:05"

func graphHeaders(req *http.Request, token, timezone string) {
	if timezone == "" {
		timezone = "UTC"
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Prefer", fmt.Sprintf("outlook.timezone=%q", timezone))
}

func (c *GraphClient) do(req *http.Request) (*http.Response, error) {
	httpc := c.HTTP
	if httpc == nil {
		httpc = graphHTTPClient()
	}
	return httpc.Do(req)
}

// ListDayView fetches events overlapping the UTC range, with start/end
// rendered in the given time zone.
func (c *GraphClient) ListDayView(ctx context.Context, token string, startUTC, endUTC time.Time, timezone string) ([]Event, error) {
	params := url.Values{}
	params.Set("startDateTime", startUTC.UTC().Format(graphTimeLayout))
	params.Set("endDateTime", endUTC.UTC().Format(graphTimeLayout))
	params.Set("$select", "subject,start,end,showAs,isCancelled")
	params.Set("$orderby", "start/dateTime ASC")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/me/calendarView?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build calendarView request: %w", err)
	}
	graphHeaders(req, token, timezone)

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("calendarView request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var out struct {
		Value []Event `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode calendarView response: %w", err)
	}
	return out.Value, nil
}

// CreateEvent creates a blocking event on the host's calendar with the guest
// as a required attendee.
func (c *GraphClient) CreateEvent(ctx context.Context, token string, draft EventDraft) (*EventRef, error) {
	attendees := make([]map[string]any, 0, len(draft.Attendees))
	for _, addr := range draft.Attendees {
		attendees = append(attendees, map[string]any{
			"emailAddress": map[string]string{"address": addr},
			"type":         "required",
		})
	}
	payload := map[string]any{
		"subject":       draft.Subject,
		"showAs":        "busy",
		"transactionId": draft.TransactionID,
		"body":          map[string]string{"contentType": "HTML", "content": draft.HTMLBody},
		"start":         DateTimeTZ{DateTime: draft.StartLocal.Format(graphTimeLayout), TimeZone: draft.Timezone},
		"end":           DateTimeTZ{DateTime: draft.EndLocal.Format(graphTimeLayout), TimeZone: draft.Timezone},
		"attendees":     attendees,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/me/events", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build create-event request: %w", err)
	}
	graphHeaders(req, token, draft.Timezone)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("create-event request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var ref EventRef
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return nil, fmt.Errorf("failed to decode created event: %w", err)
	}
	return &ref, nil
}

// SendMail sends a notification message through the host's mailbox.
func (c *GraphClient) SendMail(ctx context.Context, token string, mail Mail) error {
	payload := map[string]any{
		"message": map[string]any{
			"subject": mail.Subject,
			"body":    map[string]string{"contentType": "HTML", "content": mail.HTMLBody},
			"toRecipients": []map[string]any{
				{"emailAddress": map[string]string{"address": mail.To}},
			},
		},
		"saveToSentItems": true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/me/sendMail", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sendMail request: %w", err)
	}
	graphHeaders(req, token, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("sendMail request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return readAPIError(resp)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err := &APIError{Status: resp.StatusCode, Body: string(snippet)}
	zap.L().Debug("graph API error", zap.Int("status", resp.StatusCode))
	return err
}
