package content

import (
	"context"
	"errors"
	"time"

	"folio/pkg/flight"
)

const fetchTimeout = 15 * time.Second

// Cached serves collections from memory and refreshes them from the
// underlying Store once their TTL lapses. Fetches run detached from the
// request that triggered them since every waiting caller shares the result.
type Cached struct {
	sections flight.Cache[[]Section]
	projects flight.Cache[[]Project]
	project  flight.Cache[Project]
	heroes   flight.Cache[[]HeroTitle]
	quotes   flight.Cache[[]Quote]
	trivia   flight.Cache[[]Trivia]
}

var _ Store = (*Cached)(nil)

func NewCached(s Store, ttl time.Duration) *Cached {
	return &Cached{
		sections: flight.NewCache(ttl, detached(func(ctx context.Context, _ string) ([]Section, error) { return s.Sections(ctx) })),
		projects: flight.NewCache(ttl, detached(func(ctx context.Context, _ string) ([]Project, error) { return s.Projects(ctx) })),
		project:  flight.NewCache(ttl, detached(s.Project)),
		heroes:   flight.NewCache(ttl, detached(func(ctx context.Context, _ string) ([]HeroTitle, error) { return s.HeroTitles(ctx) })),
		quotes:   flight.NewCache(ttl, detached(func(ctx context.Context, _ string) ([]Quote, error) { return s.Quotes(ctx) })),
		trivia:   flight.NewCache(ttl, detached(func(ctx context.Context, _ string) ([]Trivia, error) { return s.Trivia(ctx) })),
	}
}

func detached[V any](fn func(context.Context, string) (V, error)) func(string) (V, error) {
	return func(k string) (V, error) {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return fn(ctx, k)
	}
}

// wait returns early when the caller gives up, leaving the shared fetch running.
func wait[V any](ctx context.Context, fn func() (V, error)) (V, error) {
	type result struct {
		v   V
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()
	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

func (c *Cached) Sections(ctx context.Context) ([]Section, error) {
	return wait(ctx, func() ([]Section, error) { return c.sections.Get(TableSections) })
}

func (c *Cached) Projects(ctx context.Context) ([]Project, error) {
	return wait(ctx, func() ([]Project, error) { return c.projects.Get(TableProjects) })
}

func (c *Cached) Project(ctx context.Context, slug string) (Project, error) {
	return wait(ctx, func() (Project, error) { return c.project.Get(slug) })
}

func (c *Cached) HeroTitles(ctx context.Context) ([]HeroTitle, error) {
	return wait(ctx, func() ([]HeroTitle, error) { return c.heroes.Get(TableHeroTitles) })
}

func (c *Cached) Quotes(ctx context.Context) ([]Quote, error) {
	return wait(ctx, func() ([]Quote, error) { return c.quotes.Get(TableQuotes) })
}

func (c *Cached) Trivia(ctx context.Context) ([]Trivia, error) {
	return wait(ctx, func() ([]Trivia, error) { return c.trivia.Get(TableTrivia) })
}

// Refresh refetches every collection from the Store, replacing what is
// cached, and drops cached projects so they load again on their next read.
func (c *Cached) Refresh(ctx context.Context) error {
	c.project.Flush()
	return errors.Join(
		force(ctx, c.sections, TableSections),
		force(ctx, c.projects, TableProjects),
		force(ctx, c.heroes, TableHeroTitles),
		force(ctx, c.quotes, TableQuotes),
		force(ctx, c.trivia, TableTrivia),
	)
}

func force[V any](ctx context.Context, fc flight.Cache[V], key string) error {
	_, err := wait(ctx, func() (V, error) { return fc.Force(key) })
	return err
}
