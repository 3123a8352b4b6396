package content

import (
	"context"
	"sync"
)

type fakeStore struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
}

func (f *fakeStore) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeStore) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeStore) Sections(ctx context.Context) ([]Section, error) {
	f.hit("sections")
	return []Section{{Slug: "about"}}, f.err
}

func (f *fakeStore) Projects(ctx context.Context) ([]Project, error) {
	f.hit("projects")
	return []Project{{Slug: "a"}}, f.err
}

func (f *fakeStore) Project(ctx context.Context, slug string) (Project, error) {
	f.hit("project:" + slug)
	if slug == "missing" {
		return Project{}, ErrNotFound
	}
	return Project{Slug: slug}, f.err
}

func (f *fakeStore) HeroTitles(ctx context.Context) ([]HeroTitle, error) {
	f.hit("heroes")
	return []HeroTitle{{Text: "Developer"}}, f.err
}

func (f *fakeStore) Quotes(ctx context.Context) ([]Quote, error) {
	f.hit("quotes")
	return []Quote{{Text: "q"}}, f.err
}

func (f *fakeStore) Trivia(ctx context.Context) ([]Trivia, error) {
	f.hit("trivia")
	return []Trivia{{Fact: "f"}}, f.err
}
