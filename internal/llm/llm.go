package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Sentinel errors for article generation.
var (
	ErrMissingAPIKey   = errors.New("LLM API key is not set")
	ErrEmptyTopic      = errors.New("topic cannot be empty")
	ErrEmptyCompletion = errors.New("model returned no content")
)

// Defaults target the Zhipu OpenAI-compatible endpoint.
const (
	DefaultBaseURL   = "https://open.bigmodel.cn/api/paas/v4"
	DefaultModel     = "glm-4.7"
	DefaultMaxTokens = 4000
	DefaultTimeout   = 180 * time.Second
)

// Writer generates Markdown articles.
type Writer struct {
	client    openai.Client
	model     string
	maxTokens int64
}

type settings struct {
	baseURL    string
	model      string
	maxTokens  int64
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a Writer.
type Option func(*settings)

// WithBaseURL sets the API endpoint. Empty keeps the default.
func WithBaseURL(u string) Option {
	return func(s *settings) {
		if u != "" {
			s.baseURL = u
		}
	}
}

// WithModel sets the chat model. Empty keeps the default.
func WithModel(model string) Option {
	return func(s *settings) {
		if model != "" {
			s.model = model
		}
	}
}

// WithMaxTokens caps the completion length. Non-positive keeps the default.
func WithMaxTokens(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxTokens = int64(n)
		}
	}
}

// WithTimeout bounds each request. Non-positive keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) {
		s.httpClient = hc
	}
}

// NewWriter creates a Writer authenticating with apiKey.
func NewWriter(apiKey string, opts ...Option) (*Writer, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	s := settings{
		baseURL:   DefaultBaseURL,
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&s)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(s.baseURL),
		option.WithRequestTimeout(s.timeout),
		option.WithMaxRetries(0),
	}
	if s.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(s.httpClient))
	}

	return &Writer{
		client:    openai.NewClient(clientOpts...),
		model:     s.model,
		maxTokens: s.maxTokens,
	}, nil
}

// Complete sends prompt as a single user message and returns the reply.
func (w *Writer) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := w.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(w.model),
		Messages:  []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		MaxTokens: openai.Int(w.maxTokens),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("chat completion: HTTP %d: %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

// WriteArticle asks the model for an article about topic and returns its
// Markdown with any wrapping code fence removed.
func (w *Writer) WriteArticle(ctx context.Context, topic string) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", ErrEmptyTopic
	}
	reply, err := w.Complete(ctx, ArticlePrompt(topic))
	if err != nil {
		return "", err
	}
	article := StripFence(reply)
	if article == "" {
		return "", ErrEmptyCompletion
	}
	return article, nil
}

// ArticlePrompt returns the instruction sent for a topic.
func ArticlePrompt(topic string) string {
	return "请为微信公众号写一篇深度文章：\n\n" +
		"主题：" + topic + "\n\n" +
		"要求：\n" +
		"1. 2000-3000 字\n" +
		"2. Markdown 格式\n" +
		"3. 包含标题、章节、小标题\n" +
		"4. 使用列表呈现要点\n" +
		"5. 语言专业但不晦涩"
}

// StripFence removes a code fence wrapped around the whole reply, with or
// without a "markdown" info string.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "```markdown"); ok {
		s = strings.TrimPrefix(rest, "\n")
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
