// Package telegram is a minimal Bot API client, just enough for sendMessage.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
)

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
		HTTP:    httpClient,
	}
}

type sendMessageParams struct {
	ChatID string `url:"chat_id"`
	Text   string `url:"text"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// SendMessage posts a plain-text message to the chat. The Bot API responds
// 200 with ok=false for some application errors, so both are checked.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	params, err := query.Values(sendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.BaseURL, c.Token)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("telegram %s: %s", resp.Status, string(raw))
	}

	var out apiResponse
	_ = json.Unmarshal(raw, &out)
	if !out.OK {
		return fmt.Errorf("telegram rejected message: %s", out.Description)
	}
	return nil
}
