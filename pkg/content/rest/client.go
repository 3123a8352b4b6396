// Package rest reads content from a PostgREST-style backend.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"

	"folio/pkg/content"
)

const DefaultTimeout = 15 * time.Second

// Doer is the part of httpkit.ClientInterface the client needs.
type Doer interface {
	DoRequest(req *http.Request) ([]byte, error)
}

type Client struct {
	base string
	key  string
	http Doer
}

var _ content.Store = (*Client)(nil)

// New builds a client for baseURL authenticated with the anon key. A nil doer
// uses httpkit with DefaultTimeout.
func New(baseURL, key string, doer Doer) *Client {
	if doer == nil {
		doer = httpkit.New(DefaultTimeout)
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		key:  key,
		http: doer,
	}
}

// Authorize sets the headers the backend expects on every call.
func Authorize(req *http.Request, key string) {
	if key == "" {
		return
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)
}

func list[T any](ctx context.Context, c *Client, table string, filter url.Values) ([]T, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "position.asc")
	for k, v := range filter {
		q[k] = v
	}
	endpoint := c.base + "/rest/v1/" + table + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", table, err)
	}
	req.Header.Set("Accept", "application/json")
	Authorize(req, c.key)

	body, err := c.http.DoRequest(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}
	out := []T{}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", table, err)
	}
	return out, nil
}

func (c *Client) Sections(ctx context.Context) ([]content.Section, error) {
	return list[content.Section](ctx, c, content.TableSections, nil)
}

func (c *Client) Projects(ctx context.Context) ([]content.Project, error) {
	projects, err := list[content.Project](ctx, c, content.TableProjects, nil)
	for i := range projects {
		if projects[i].Tags == nil {
			projects[i].Tags = []string{}
		}
	}
	return projects, err
}

func (c *Client) Project(ctx context.Context, slug string) (content.Project, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return content.Project{}, content.ErrNotFound
	}
	projects, err := list[content.Project](ctx, c, content.TableProjects, url.Values{
		"slug":  {"eq." + slug},
		"limit": {"1"},
	})
	if err != nil {
		return content.Project{}, err
	}
	if len(projects) == 0 {
		return content.Project{}, content.ErrNotFound
	}
	if projects[0].Tags == nil {
		projects[0].Tags = []string{}
	}
	return projects[0], nil
}

func (c *Client) HeroTitles(ctx context.Context) ([]content.HeroTitle, error) {
	return list[content.HeroTitle](ctx, c, content.TableHeroTitles, nil)
}

func (c *Client) Quotes(ctx context.Context) ([]content.Quote, error) {
	return list[content.Quote](ctx, c, content.TableQuotes, nil)
}

func (c *Client) Trivia(ctx context.Context) ([]content.Trivia, error) {
	return list[content.Trivia](ctx, c, content.TableTrivia, nil)
}
