package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// completionServer answers /chat/completions with content and records the
// decoded request.
func completionServer(t *testing.T, status int, content string) (*httptest.Server, *map[string]any) {
	t.Helper()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
			return
		}
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &got)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = io.WriteString(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
			return
		}
		reply, _ := json.Marshal(content)
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"glm-4.7",`+
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":`+string(reply)+`}}]}`)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func newTestWriter(t *testing.T, srv *httptest.Server) *Writer {
	t.Helper()

	w, err := NewWriter("test-key", WithBaseURL(srv.URL+"/api/v4/"), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	return w
}

func TestNewWriter_MissingAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := NewWriter(""); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("NewWriter(\"\") error = %v, want ErrMissingAPIKey", err)
	}
}

func TestWriter_WriteArticle(t *testing.T) {
	t.Parallel()

	srv, got := completionServer(t, http.StatusOK, "```markdown\n# AI 趋势\n\n正文\n```")
	w := newTestWriter(t, srv)

	article, err := w.WriteArticle(context.Background(), "AI 趋势")
	if err != nil {
		t.Fatalf("WriteArticle() error = %v", err)
	}
	if article != "# AI 趋势\n\n正文" {
		t.Errorf("WriteArticle() = %q, want fence stripped", article)
	}

	req := *got
	if req["model"] != DefaultModel {
		t.Errorf("model = %v, want %s", req["model"], DefaultModel)
	}
	if req["max_tokens"] != float64(DefaultMaxTokens) {
		t.Errorf("max_tokens = %v, want %d", req["max_tokens"], DefaultMaxTokens)
	}
	msgs, _ := req["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("messages = %v, want one user message", req["messages"])
	}
	msg, _ := msgs[0].(map[string]any)
	if msg["role"] != "user" || !strings.Contains(msg["content"].(string), "主题：AI 趋势") {
		t.Errorf("message = %v, want user prompt with topic", msg)
	}
}

func TestWriter_Options(t *testing.T) {
	t.Parallel()

	srv, got := completionServer(t, http.StatusOK, "ok")
	w, err := NewWriter("test-key",
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithModel("other-model"),
		WithMaxTokens(100),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := w.Complete(context.Background(), "hi"); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if (*got)["model"] != "other-model" || (*got)["max_tokens"] != float64(100) {
		t.Errorf("request = %v, want model other-model and max_tokens 100", *got)
	}
}

func TestWriter_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty topic", func(t *testing.T) {
		t.Parallel()

		srv, _ := completionServer(t, http.StatusOK, "x")
		if _, err := newTestWriter(t, srv).WriteArticle(context.Background(), " "); !errors.Is(err, ErrEmptyTopic) {
			t.Errorf("WriteArticle() error = %v, want ErrEmptyTopic", err)
		}
	})

	t.Run("empty reply", func(t *testing.T) {
		t.Parallel()

		srv, _ := completionServer(t, http.StatusOK, "  ")
		if _, err := newTestWriter(t, srv).WriteArticle(context.Background(), "t"); !errors.Is(err, ErrEmptyCompletion) {
			t.Errorf("WriteArticle() error = %v, want ErrEmptyCompletion", err)
		}
	})

	t.Run("fence only", func(t *testing.T) {
		t.Parallel()

		srv, _ := completionServer(t, http.StatusOK, "```markdown\n```")
		if _, err := newTestWriter(t, srv).WriteArticle(context.Background(), "t"); !errors.Is(err, ErrEmptyCompletion) {
			t.Errorf("WriteArticle() error = %v, want ErrEmptyCompletion", err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()

		srv, _ := completionServer(t, http.StatusServiceUnavailable, "")
		_, err := newTestWriter(t, srv).WriteArticle(context.Background(), "t")
		if err == nil || !strings.Contains(err.Error(), "HTTP 503") {
			t.Errorf("WriteArticle() error = %v, want HTTP 503", err)
		}
	})
}

func TestStripFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"markdown fence", "```markdown\n# T\nbody\n```", "# T\nbody"},
		{"bare fence", "```\n# T\n```", "# T"},
		{"surrounding whitespace", "\n  ```markdown\n# T\n```  \n", "# T"},
		{"no fence", "# T\nbody", "# T\nbody"},
		{"inner fences kept", "# T\n\n```go\nx\n```\n\nend", "# T\n\n```go\nx\n```\n\nend"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := StripFence(tt.input); got != tt.want {
				t.Errorf("StripFence(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestArticlePrompt(t *testing.T) {
	t.Parallel()

	got := ArticlePrompt("量子计算")
	for _, want := range []string{"主题：量子计算", "Markdown 格式", "2000-3000 字"} {
		if !strings.Contains(got, want) {
			t.Errorf("ArticlePrompt() = %q, want containing %q", got, want)
		}
	}
}
