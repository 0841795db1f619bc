package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Dan9191/cashcompass/internal/config"
	"github.com/sirupsen/logrus"
)

// ErrEmptyResponse is returned when the model answers without any text
var ErrEmptyResponse = errors.New("AI did not generate a valid response")

// Client handles integration with the Gemini generateContent API
type Client struct {
	url    string
	apiKey string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new Gemini client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url:    cfg.GeminiURL,
		apiKey: cfg.GeminiAPIKey,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: log,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// buildRequest wraps the prompt into a generateContent payload
func (c *Client) buildRequest(prompt string) ([]byte, error) {
	return json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 2048,
		},
	})
}

// sendRequest posts the payload to the API
func (c *Client) sendRequest(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Debugf("Gemini error response: %s", string(body))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return body, nil
}

// parseResponse extracts the text of the first candidate
func (c *Client) parseResponse(body []byte) (string, error) {
	var res generateResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 ||
		res.Candidates[0].Content.Parts[0].Text == "" {
		return "", ErrEmptyResponse
	}
	return res.Candidates[0].Content.Parts[0].Text, nil
}

// GenerateAdvice sends the prompt and returns the model's markdown answer
func (c *Client) GenerateAdvice(ctx context.Context, prompt string) (string, error) {
	payload, err := c.buildRequest(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	body, err := c.sendRequest(ctx, payload)
	if err != nil {
		return "", err
	}
	advice, err := c.parseResponse(body)
	if err != nil {
		return "", err
	}

	c.log.Infof("Received AI advice (%d characters)", len(advice))
	return advice, nil
}
