// Package inference talks to hosted text-generation endpoints that accept
// {"inputs": prompt} and answer with [{"generated_text": ...}].
package inference

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/interview-trainer/internal/logger"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	defaultTimeout  = 10 * time.Second
	maxBodySize     = 1 << 20
)

// Client calls one inference endpoint.
type Client struct {
	URL        string
	UserAgent  string
	HTTPClient *http.Client

	token  string
	logger *zap.Logger
}

type request struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

type generation struct {
	GeneratedText string `mapstructure:"generated_text"`
}

type apiError struct {
	Error         string  `mapstructure:"error"`
	EstimatedTime float64 `mapstructure:"estimated_time"`
}

func New(url, token string, log *zap.Logger) *Client {
	return &Client{
		URL:        strings.TrimSpace(url),
		UserAgent:  "interview-trainer",
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		token:      strings.TrimSpace(token),
		logger:     logger.WithFields(log, zap.String("endpoint", url)),
	}
}

// GenerateContent posts the prompt and returns the first generated text.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.URL == "" {
		return "", errors.New("inference endpoint is not configured")
	}

	body, err := json.Marshal(request{
		Inputs:     prompt,
		Parameters: map[string]any{"return_full_text": false},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling inference endpoint: %w", err)
	}
	defer resp.Body.Close()

	payload, err := readBody(resp)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s: %s", resp.Status, describeError(payload))
	}

	return parseGeneration(payload)
}

func (c *Client) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("opening gzip body: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return data, nil
}

// parseGeneration accepts both the list form and a single object.
func parseGeneration(payload []byte) (string, error) {
	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	var items []generation
	switch v := raw.(type) {
	case []any:
		if err := mapstructure.Decode(v, &items); err != nil {
			return "", fmt.Errorf("decoding generations: %w", err)
		}
	case map[string]any:
		var apiErr apiError
		if err := mapstructure.Decode(v, &apiErr); err == nil && apiErr.Error != "" {
			return "", fmt.Errorf("inference error: %s", apiErr.Error)
		}
		var single generation
		if err := mapstructure.Decode(v, &single); err != nil {
			return "", fmt.Errorf("decoding generation: %w", err)
		}
		items = append(items, single)
	default:
		return "", fmt.Errorf("unexpected response type %T", raw)
	}

	for _, item := range items {
		if text := strings.TrimSpace(item.GeneratedText); text != "" {
			return text, nil
		}
	}
	return "", errors.New("inference endpoint returned no text")
}

func describeError(payload []byte) string {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return strings.TrimSpace(string(payload))
	}

	var apiErr apiError
	if err := mapstructure.Decode(raw, &apiErr); err != nil || apiErr.Error == "" {
		return strings.TrimSpace(string(payload))
	}
	if apiErr.EstimatedTime > 0 {
		return fmt.Sprintf("%s (estimated time %.0fs)", apiErr.Error, apiErr.EstimatedTime)
	}
	return apiErr.Error
}
