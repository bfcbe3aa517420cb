package preview

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/alnah/go-md2wechat/internal/pipeline"
)

// RenderFunc turns Markdown into a full HTML document.
type RenderFunc func(ctx context.Context, markdown string) (string, error)

// liveReloadScript reconnects the page to /ws and reloads on message.
const liveReloadScript = `<script>
(function() {
  var socket = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  socket.onmessage = function(event) {
    if (event.data === "reload") { window.location.reload(); }
  };
})();
</script>`

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server renders one Markdown file on every request.
type Server struct {
	path   string
	render RenderFunc
	hub    *Hub
	logger *slog.Logger
}

// NewServer creates a Server for the file at path.
func NewServer(path string, render RenderFunc, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		path:   path,
		render: render,
		hub:    NewHub(logger),
		logger: logger,
	}
}

// Hub returns the live reload hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP routes:
//
//	/        themed document with live reload
//	/styled  inline-styled document, as sent to the draft API
//	/ws      live reload websocket
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.hub)
	mux.HandleFunc("/styled", func(w http.ResponseWriter, r *http.Request) {
		s.serve(w, r, true)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		s.serve(w, r, false)
	})
	return mux
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, styled bool) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := http.StatusOK
	doc, err := s.renderFile(r.Context(), styled)
	if err != nil {
		s.logger.Warn("render failed", "error", err)
		status = http.StatusInternalServerError
		doc = "<!DOCTYPE html><html><body><pre>" + html.EscapeString(err.Error()) + "</pre></body></html>"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(pipeline.InjectBeforeBodyEnd(doc, liveReloadScript)))
}

func (s *Server) renderFile(ctx context.Context, styled bool) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", s.path, err)
	}
	doc, err := s.render(ctx, string(data))
	if err != nil {
		return "", err
	}
	if styled {
		doc = pipeline.PrepareForWeChat(pipeline.InlineStyles(doc))
	}
	return doc, nil
}

// ListenAndServe serves on addr and reloads browsers when the file
// changes. It returns when ctx is done or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- Watch(ctx, s.path, DefaultDebounce, s.logger, s.hub.Reload)
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		cancel()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case err := <-watchErr:
		if err != nil {
			_ = srv.Close()
			return err
		}
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}
