package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dunterov/aws-csv-to-confluence/internal"
)

const defaultChildPageLimit = 100

// APIError is a non-2xx response from the Confluence REST API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("confluence: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("confluence: unexpected status %d", e.StatusCode)
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func WithChildPageLimit(limit int) Option {
	return func(c *Client) {
		c.childPageLimit = limit
	}
}

// Client talks to the Confluence REST content API with basic auth. Page
// bodies go up in the wiki representation, not storage format.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger

	baseURL  *url.URL
	username string
	token    string

	childPageLimit int

	// Space keys by page id. Creating a page requires its space key, and the
	// API only hands the key out on a page read.
	mu     sync.Mutex
	spaces map[string]string
}

func New(base, username, token string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("confluence: invalid base url %q: %w", base, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("confluence: invalid base url %q", base)
	}

	c := Client{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		logger:         zap.NewNop(),
		baseURL:        u,
		username:       username,
		token:          token,
		childPageLimit: defaultChildPageLimit,
		spaces:         map[string]string{},
	}

	for _, opt := range opts {
		opt(&c)
	}

	return &c, nil
}

// Page is the client-side view of a Confluence page. It carries the space
// key, which the sync core has no use for but page creation does.
type Page struct {
	internal.PageRef
	SpaceKey string
}

type content struct {
	ID        string     `json:"id,omitempty"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Space     *space     `json:"space,omitempty"`
	Ancestors []ancestor `json:"ancestors,omitempty"`
	Body      *body      `json:"body,omitempty"`
	Version   *version   `json:"version,omitempty"`
}

type space struct {
	Key string `json:"key"`
}

type ancestor struct {
	ID string `json:"id"`
}

type body struct {
	Wiki wikiBody `json:"wiki"`
}

type wikiBody struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

type version struct {
	Number int    `json:"number"`
	When   string `json:"when,omitempty"`
}

type searchResult struct {
	Results []content `json:"results"`
	Size    int       `json:"size"`
}

// FindPageByTitle looks the title up and accepts only a match that lives
// under parentID. A page carrying the title elsewhere in the instance is
// treated as absent; the create that follows will surface the collision.
func (c *Client) FindPageByTitle(ctx context.Context, parentID, title string) (*internal.PageRef, error) {
	q := url.Values{}
	q.Set("title", title)
	q.Set("type", "page")
	q.Set("expand", "version,ancestors")

	var res searchResult
	if err := c.get(ctx, "/rest/api/content", q, &res); err != nil {
		return nil, err
	}

	for _, page := range res.Results {
		if page.Title != title {
			continue
		}
		if !hasAncestor(page.Ancestors, parentID) {
			continue
		}
		return pageRef(page), nil
	}
	return nil, nil
}

func (c *Client) CreatePage(ctx context.Context, parentID, title, bodyText string) (*internal.PageRef, error) {
	spaceKey, err := c.spaceOf(ctx, parentID)
	if err != nil {
		return nil, err
	}

	payload := content{
		Type:      "page",
		Title:     title,
		Space:     &space{Key: spaceKey},
		Ancestors: []ancestor{{ID: parentID}},
		Body:      wikiBodyOf(bodyText),
	}

	var created content
	if err := c.send(ctx, http.MethodPost, "/rest/api/content", payload, &created); err != nil {
		return nil, err
	}

	c.logger.Debug("created page",
		zap.String("page_id", created.ID),
		zap.String("title", title),
	)
	return pageRef(created), nil
}

// UpdatePage overwrites the page body. The API requires the next version
// number and the title on every update, both taken from ref.
func (c *Client) UpdatePage(ctx context.Context, ref *internal.PageRef, bodyText string) error {
	payload := content{
		ID:      ref.ID,
		Type:    "page",
		Title:   ref.Title,
		Version: &version{Number: ref.Version + 1},
		Body:    wikiBodyOf(bodyText),
	}

	if err := c.send(ctx, http.MethodPut, "/rest/api/content/"+ref.ID, payload, nil); err != nil {
		return err
	}

	c.logger.Debug("updated page",
		zap.String("page_id", ref.ID),
		zap.String("title", ref.Title),
		zap.Int("version", ref.Version+1),
	)
	return nil
}

// ListChildPages pages through every direct child of parentID.
func (c *Client) ListChildPages(ctx context.Context, parentID string) ([]internal.ChildPage, error) {
	var children []internal.ChildPage
	for start := 0; ; start += c.childPageLimit {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(c.childPageLimit))
		q.Set("start", strconv.Itoa(start))
		q.Set("expand", "version")

		var res searchResult
		if err := c.get(ctx, "/rest/api/content/"+parentID+"/child/page", q, &res); err != nil {
			return nil, err
		}

		for _, page := range res.Results {
			children = append(children, c.childPage(page))
		}

		if res.Size < c.childPageLimit {
			return children, nil
		}
	}
}

func (c *Client) DeletePage(ctx context.Context, ref *internal.PageRef) error {
	if err := c.send(ctx, http.MethodDelete, "/rest/api/content/"+ref.ID, nil, nil); err != nil {
		return err
	}

	c.logger.Debug("deleted page",
		zap.String("page_id", ref.ID),
		zap.String("title", ref.Title),
	)
	return nil
}

// GetPage reads a single page with its space and version. The sync uses it
// to validate the configured parent and learn its space key.
func (c *Client) GetPage(ctx context.Context, id string) (*Page, error) {
	q := url.Values{}
	q.Set("expand", "version,space")

	var page content
	if err := c.get(ctx, "/rest/api/content/"+id, q, &page); err != nil {
		return nil, err
	}
	return c.page(page), nil
}

// FindPageBySpaceTitle resolves a page by space key and exact title, the
// alternative way of naming the sync parent. Returns nil when absent.
func (c *Client) FindPageBySpaceTitle(ctx context.Context, spaceKey, title string) (*Page, error) {
	q := url.Values{}
	q.Set("spaceKey", spaceKey)
	q.Set("title", title)
	q.Set("type", "page")
	q.Set("expand", "version,space")

	var res searchResult
	if err := c.get(ctx, "/rest/api/content", q, &res); err != nil {
		return nil, err
	}

	for _, page := range res.Results {
		if page.Title != title {
			continue
		}
		return c.page(page), nil
	}
	return nil, nil
}

func (c *Client) page(page content) *Page {
	p := Page{PageRef: *pageRef(page)}
	if page.Space != nil {
		p.SpaceKey = page.Space.Key
	}
	if p.SpaceKey != "" {
		c.mu.Lock()
		c.spaces[p.ID] = p.SpaceKey
		c.mu.Unlock()
	}
	return &p
}

func (c *Client) childPage(page content) internal.ChildPage {
	child := internal.ChildPage{PageRef: *pageRef(page)}
	if page.Version == nil || page.Version.When == "" {
		return child
	}

	when, err := time.Parse(time.RFC3339, page.Version.When)
	if err != nil {
		// Left at the zero time, which exempts the page from deletion.
		c.logger.Warn("unparseable last-modified timestamp",
			zap.String("page_id", page.ID),
			zap.String("title", page.Title),
			zap.String("when", page.Version.When),
		)
		return child
	}
	child.LastModified = when
	return child
}

func (c *Client) spaceOf(ctx context.Context, pageID string) (string, error) {
	c.mu.Lock()
	key, ok := c.spaces[pageID]
	c.mu.Unlock()
	if ok {
		return key, nil
	}

	page, err := c.GetPage(ctx, pageID)
	if err != nil {
		return "", err
	}
	if page.SpaceKey == "" {
		return "", fmt.Errorf("confluence: page %s has no space", pageID)
	}
	return page.SpaceKey, nil
}

func hasAncestor(ancestors []ancestor, id string) bool {
	for _, a := range ancestors {
		if a.ID == id {
			return true
		}
	}
	return false
}

func pageRef(page content) *internal.PageRef {
	ref := internal.PageRef{
		ID:    page.ID,
		Title: page.Title,
	}
	if page.Version != nil {
		ref.Version = page.Version.Number
	}
	return &ref
}

func wikiBodyOf(value string) *body {
	return &body{
		Wiki: wikiBody{
			Value:          value,
			Representation: "wiki",
		},
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, payload, out any) error {
	return c.do(ctx, method, path, nil, payload, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	u := *c.baseURL
	u.Path += path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		bs, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("confluence: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	bs, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(bs, &payload) == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	}
	return apiErr
}
