package vercel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	safe := method == http.MethodGet
	return c.retry.Do(ctx, safe, func() error {
		return c.breaker.Execute(func() error {
			return c.doOnce(ctx, method, path, query, body, out)
		})
	})
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	if c.cfg.TeamID != "" {
		query.Set("teamId", c.cfg.TeamID)
	}
	target := c.cfg.BaseURL + path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("failed to read error body: %v", readErr)}
		}
		var envelope errorEnvelope
		if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
			return &APIError{Status: resp.StatusCode, Code: envelope.Error.Code, Message: envelope.Error.Message}
		}
		return &APIError{Status: resp.StatusCode, Message: string(raw)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return err
		}
	}
	return nil
}
