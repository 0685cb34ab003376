package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/marcusgo82/stridelab/asset"
	"github.com/marcusgo82/stridelab/config"
	"github.com/marcusgo82/stridelab/util/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	// maxShoes caps the recommended shoe list regardless of what the
	// model returns.
	maxShoes = 5

	requestTimeout = 30 * time.Second
)

// Settings supplies the endpoint configuration. Satisfied by
// footprint.Config.
type Settings interface {
	GetAdvisoryEndpoint() string
	GetAdvisoryModel() string
	GetAdvisoryAPIKey() string
}

// Client is a one-shot client for the generative advisory endpoint. There
// is no retry policy; callers log failures and show nothing.
type Client struct {
	cfg        Settings
	httpClient *http.Client
	assetMgr   *asset.Manager
	limiter    *rate.Limiter
	group      singleflight.Group
}

// NewClient creates an advisory client. A nil httpClient gets a default
// with a request timeout and an identifying User-Agent.
func NewClient(cfg Settings, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: requestTimeout,
			Transport: &UserAgentTransport{
				RoundTripper: http.DefaultTransport,
				UserAgent:    config.AppName + "/" + config.AppVersion,
			},
		}
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		assetMgr:   asset.NewManager(),
		// One request every two seconds with a small burst, the
		// endpoint bills per call.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 2),
	}
}

// chat completions wire format, request side.
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

// chat completions wire format, response side.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Fetch requests advisory content for the given analysis. Identical
// in-flight requests are coalesced, repeated clicks on the report button
// cost one call.
func (c *Client) Fetch(ctx context.Context, req Request) (*Content, error) {
	key := fmt.Sprintf("%s|%s|%.2f|%.2f", req.Classification, req.ShoeSize, req.CSI, req.SI)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		return c.fetch(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Content), nil
}

func (c *Client) fetch(ctx context.Context, req Request) (*Content, error) {
	apiKey := c.cfg.GetAdvisoryAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("advisory API key is missing")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	prompt, err := c.buildPrompt(req)
	if err != nil {
		return nil, err
	}

	payload := chatRequest{
		Model: c.cfg.GetAdvisoryModel(),
		Messages: []chatMessage{
			{Role: "system", Content: "You are a podiatry-informed footwear assistant. Respond with a single JSON object and nothing else."},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &respFormat{Type: "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding advisory request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GetAdvisoryEndpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	log.Debugf("Fetching advisory for %s (CSI=%.2f SI=%.2f)", req.Classification, req.CSI, req.SI)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		log.Printf("Advisory API error: %s", string(raw))
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("response contained no choices")
	}

	var content Content
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &content); err != nil {
		return nil, fmt.Errorf("failed to parse advisory content: %w", err)
	}
	if len(content.Shoes) > maxShoes {
		content.Shoes = content.Shoes[:maxShoes]
	}

	return &content, nil
}

// buildPrompt renders the embedded prompt template with the analysis
// values.
func (c *Client) buildPrompt(req Request) (string, error) {
	tmpl, err := c.assetMgr.GetText("advisory_prompt.txt")
	if err != nil {
		return "", fmt.Errorf("loading prompt template: %w", err)
	}
	return fmt.Sprintf(tmpl, req.Classification, req.ShoeSize, req.CSI, req.SI), nil
}
