package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/odit-bit/textgen/generate"
)

const (
	default_address = "http://127.0.0.1:11824"
	GeneratePath    = "/v1/generate"
)

// Client talks to a running playground.
type Client struct {
	client   *http.Client
	Endpoint string
}

func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = default_address
	}
	return &Client{
		client:   http.DefaultClient,
		Endpoint: strings.TrimSuffix(endpoint, "/"),
	}
}

// Generate sends prompt with every knob of opts set.
func (c *Client) Generate(ctx context.Context, prompt string, opts generate.Options) ([]string, error) {
	res, err := c.Do(ctx, *NewGenerateRequest(prompt, opts))
	if err != nil {
		return nil, err
	}
	return res.Sequences, nil
}

func (c *Client) Do(ctx context.Context, in GenerateRequest) (*GenerateResponse, error) {
	urlString := c.Endpoint + GeneratePath

	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, urlString, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("client failed create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		var apiErr ErrorResponse
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("API error: status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, string(b))
	}

	var out GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
