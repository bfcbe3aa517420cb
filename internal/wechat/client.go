package wechat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the public API endpoint.
const DefaultBaseURL = "https://api.weixin.qq.com"

// Draft field limits, in runes.
const (
	MaxTitleRunes  = 32
	MaxAuthorRunes = 8
)

const (
	defaultTimeout = 30 * time.Second
	// Tokens are refreshed this long before the platform expires them.
	tokenExpiryMargin = 5 * time.Minute
	// Response bodies are JSON envelopes; anything larger is not ours.
	maxResponseSize = 1 << 20
)

// Client talks to the Official Account API with one app's credentials.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	appID      string
	appSecret  string
	httpClient *http.Client
	now        func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Client for the given app credentials.
func NewClient(appID, appSecret string, opts ...Option) (*Client, error) {
	if appID == "" || appSecret == "" {
		return nil, ErrMissingCredentials
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		appID:      appID,
		appSecret:  appSecret,
		httpClient: &http.Client{Timeout: defaultTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Token returns a valid access token, exchanging credentials when the
// cached one is missing or about to expire.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	q := url.Values{}
	q.Set("grant_type", "client_credential")
	q.Set("appid", c.appID)
	q.Set("secret", c.appSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cgi-bin/token?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("wechat token: %w", err)
	}
	body, err := c.do(req, "token")
	if err != nil {
		return "", err
	}

	token := gjson.GetBytes(body, "access_token").String()
	if token == "" {
		return "", fmt.Errorf("%w: token response without access_token", ErrUnexpectedResponse)
	}
	expiresIn := time.Duration(gjson.GetBytes(body, "expires_in").Int()) * time.Second
	c.token = token
	c.tokenExpiry = c.now().Add(expiresIn - tokenExpiryMargin)
	return token, nil
}

// UploadImage stores an image as permanent material and returns its
// media id, usable as a draft's thumb_media_id.
func (c *Client) UploadImage(ctx context.Context, path string) (string, error) {
	body, err := c.upload(ctx, "/cgi-bin/material/add_material", url.Values{"type": {"image"}}, path, "upload")
	if err != nil {
		return "", err
	}
	mediaID := gjson.GetBytes(body, "media_id").String()
	if mediaID == "" {
		return "", fmt.Errorf("%w: upload response without media_id", ErrUnexpectedResponse)
	}
	return mediaID, nil
}

// UploadContentImage uploads an image for use inside article content and
// returns its URL on the platform CDN.
func (c *Client) UploadContentImage(ctx context.Context, path string) (string, error) {
	body, err := c.upload(ctx, "/cgi-bin/media/uploadimg", nil, path, "uploadimg")
	if err != nil {
		return "", err
	}
	u := gjson.GetBytes(body, "url").String()
	if u == "" {
		return "", fmt.Errorf("%w: uploadimg response without url", ErrUnexpectedResponse)
	}
	return u, nil
}

// Article is one entry of a draft.
type Article struct {
	Title           string
	Author          string
	Content         string
	ThumbMediaID    string
	Digest          string
	NeedOpenComment bool
}

// draftArticle is the wire form of Article.
type draftArticle struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	Content         string `json:"content"`
	ThumbMediaID    string `json:"thumb_media_id"`
	Digest          string `json:"digest"`
	NeedOpenComment int    `json:"need_open_comment"`
}

// AddDraft creates a draft holding a single article and returns the
// draft's media id. Title and author are truncated to the platform limits.
func (c *Client) AddDraft(ctx context.Context, a Article) (string, error) {
	if strings.TrimSpace(a.Content) == "" {
		return "", ErrEmptyContent
	}

	wire := draftArticle{
		Title:        TruncateRunes(a.Title, MaxTitleRunes),
		Author:       TruncateRunes(a.Author, MaxAuthorRunes),
		Content:      a.Content,
		ThumbMediaID: a.ThumbMediaID,
		Digest:       a.Digest,
	}
	if a.NeedOpenComment {
		wire.NeedOpenComment = 1
	}

	// The editor renders content verbatim, so HTML stays unescaped.
	var payload bytes.Buffer
	enc := json.NewEncoder(&payload)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string][]draftArticle{"articles": {wire}}); err != nil {
		return "", fmt.Errorf("wechat draft: encoding: %w", err)
	}

	endpoint, err := c.endpoint(ctx, "/cgi-bin/draft/add", nil)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &payload)
	if err != nil {
		return "", fmt.Errorf("wechat draft: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	body, err := c.do(req, "draft")
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(body, "media_id").String(), nil
}

// upload posts the file at filePath as the multipart field "media".
func (c *Client) upload(ctx context.Context, apiPath string, query url.Values, filePath, op string) ([]byte, error) {
	data, err := os.ReadFile(filePath) // #nosec G304 -- path is user-provided
	if err != nil {
		return nil, fmt.Errorf("wechat %s: reading image: %w", op, err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media"; filename=%q`, filepath.Base(filePath)))
	h.Set("Content-Type", http.DetectContentType(data))
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("wechat %s: %w", op, err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("wechat %s: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("wechat %s: %w", op, err)
	}

	endpoint, err := c.endpoint(ctx, apiPath, query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("wechat %s: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req, op)
}

// endpoint builds an authenticated URL for apiPath.
func (c *Client) endpoint(ctx context.Context, apiPath string, query url.Values) (string, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("access_token", token)
	return c.baseURL + apiPath + "?" + q.Encode(), nil
}

// do sends req and returns the body of a successful JSON envelope.
// Credentials in the query string never appear in returned errors.
func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = redact(ue.URL)
		}
		return nil, fmt.Errorf("wechat %s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("wechat %s: reading response: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned HTTP %d", ErrUnexpectedResponse, op, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s returned invalid JSON", ErrUnexpectedResponse, op)
	}

	if code := gjson.GetBytes(body, "errcode").Int(); code != 0 {
		if op != "token" && (code == 40001 || code == 42001) {
			// Token rejected; drop it so the next call exchanges a new one.
			c.invalidateToken()
		}
		return nil, &APIError{
			Op:      op,
			Code:    int(code),
			Message: gjson.GetBytes(body, "errmsg").String(),
		}
	}
	return body, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// redact removes credential query parameters from a URL string.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	for _, k := range []string{"secret", "access_token"} {
		if q.Has(k) {
			q.Set(k, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// TruncateRunes returns s cut to at most n runes.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
