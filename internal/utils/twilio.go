package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// TwilioClient — thin client for the Twilio Messages API. DryRun skips the
// HTTP call entirely, which is what local development and tests run with.
type TwilioClient struct {
	AccountSID string
	AuthToken  string
	From       string
	DryRun     bool

	HTTPClient *http.Client
}

type SendMessageResponse struct {
	SID       string `json:"sid"`
	Status    string `json:"status"`
	ErrorCode *int   `json:"error_code"`
	Message   string `json:"message"`
}

func NewTwilioClient(accountSID, authToken, from string, dryRun bool) *TwilioClient {
	return &TwilioClient{
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		DryRun:     dryRun,
		HTTPClient: http.DefaultClient,
	}
}

func (c *TwilioClient) SendSMS(to, body string) (*SendMessageResponse, error) {
	if c.DryRun || c.AccountSID == "" || c.AccountSID == "dry-run" {
		fmt.Printf("[twilio][dry-run] to=%s from=%q body=%q\n", to, c.From, body)
		return &SendMessageResponse{Status: "queued"}, nil
	}

	apiURL := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", c.AccountSID)

	form := url.Values{
		"To":   {to},
		"From": {c.From},
		"Body": {body},
	}

	req, err := http.NewRequest(http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("send SMS request: %w", err)
	}
	req.SetBasicAuth(c.AccountSID, c.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send SMS request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var result SendMessageResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("twilio returned %d: %s", resp.StatusCode, result.Message)
	}
	if result.ErrorCode != nil {
		return nil, fmt.Errorf("twilio returned error code: %d", *result.ErrorCode)
	}
	return &result, nil
}
