package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/alnah/go-md2wechat/internal/fileutil"
)

// Defaults match the public ModelScope inference endpoint.
const (
	DefaultBaseURL      = "https://api-inference.modelscope.cn"
	DefaultModel        = "Tongyi-MAI/Z-Image"
	DefaultSize         = "900x383"
	DefaultPollInterval = 5 * time.Second
	DefaultMaxPolls     = 60
)

const (
	requestTimeout  = 30 * time.Second
	maxEnvelopeSize = 1 << 20
	maxImageSize    = 20 << 20
)

// Task states reported by the service.
const (
	statusSucceed = "SUCCEED"
	statusFailed  = "FAILED"
)

// Client submits generation tasks and waits for their result.
type Client struct {
	baseURL      string
	apiKey       string
	model        string
	size         string
	pollInterval time.Duration
	maxPolls     int
	httpClient   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the service endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithModel sets the model name sent with each task.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithSize sets the requested image size, e.g. "900x383".
func WithSize(size string) Option {
	return func(c *Client) {
		if size != "" {
			c.size = size
		}
	}
}

// WithPolling sets the delay between status checks and how many checks
// are made before giving up. Non-positive values keep the defaults.
func WithPolling(interval time.Duration, maxPolls int) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
		if maxPolls > 0 {
			c.maxPolls = maxPolls
		}
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		baseURL:      DefaultBaseURL,
		apiKey:       apiKey,
		model:        DefaultModel,
		size:         DefaultSize,
		pollInterval: DefaultPollInterval,
		maxPolls:     DefaultMaxPolls,
		httpClient:   &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Generate runs one task for prompt and returns the image bytes.
// The wait honors ctx between polls.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	taskID, err := c.submit(ctx, prompt)
	if err != nil {
		return nil, err
	}
	imageURL, err := c.wait(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return c.download(ctx, imageURL)
}

// GenerateFile runs Generate and writes the image to path.
func (c *Client) GenerateFile(ctx context.Context, prompt, path string) error {
	data, err := c.Generate(ctx, prompt)
	if err != nil {
		return err
	}
	if err := fileutil.WriteAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("writing cover image: %w", err)
	}
	return nil
}

func (c *Client) submit(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"model":  c.model,
		"prompt": prompt,
		"size":   c.size,
	})
	if err != nil {
		return "", fmt.Errorf("encoding task: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/images/generations", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating task request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ModelScope-Async-Mode", "true")

	body, err := c.doJSON(req, "submit")
	if err != nil {
		return "", err
	}
	taskID := gjson.GetBytes(body, "task_id").String()
	if taskID == "" {
		return "", fmt.Errorf("%w: submit response without task_id", ErrUnexpectedResponse)
	}
	return taskID, nil
}

// wait polls the task until it settles and returns the first image URL.
func (c *Client) wait(ctx context.Context, taskID string) (string, error) {
	timer := time.NewTimer(c.pollInterval)
	defer timer.Stop()

	for range c.maxPolls {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/tasks/"+taskID, nil)
		if err != nil {
			return "", fmt.Errorf("creating status request: %w", err)
		}
		req.Header.Set("X-ModelScope-Task-Type", "image_generation")

		body, err := c.doJSON(req, "status")
		if err != nil {
			return "", err
		}

		switch gjson.GetBytes(body, "task_status").String() {
		case statusSucceed:
			imageURL := gjson.GetBytes(body, "output_images.0").String()
			if imageURL == "" {
				return "", fmt.Errorf("%w: succeeded task without output_images", ErrUnexpectedResponse)
			}
			return imageURL, nil
		case statusFailed:
			return "", fmt.Errorf("%w: task %s", ErrTaskFailed, taskID)
		}
		timer.Reset(c.pollInterval)
	}
	return "", fmt.Errorf("%w: task %s after %d polls", ErrPollLimit, taskID, c.maxPolls)
}

func (c *Client) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: download returned HTTP %d", ErrUnexpectedResponse, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("downloading image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUnexpectedResponse)
	}
	return data, nil
}

// doJSON sends an authenticated request and returns a valid JSON body.
func (c *Client) doJSON(req *http.Request, op string) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image generation %s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxEnvelopeSize))
	if err != nil {
		return nil, fmt.Errorf("image generation %s: reading response: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "errors.message").String()
		if msg == "" {
			msg = gjson.GetBytes(body, "message").String()
		}
		return nil, fmt.Errorf("%w: %s returned HTTP %d %s", ErrUnexpectedResponse, op, resp.StatusCode, msg)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s returned invalid JSON", ErrUnexpectedResponse, op)
	}
	return body, nil
}
