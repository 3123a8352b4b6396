package generation

import (
	"context"
	"sync"

	"folio/pkg/imagegen"
)

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	block   chan struct{}
	err     error
}

func (f *fakeGenerator) Generate(ctx context.Context, req imagegen.Request) (imagegen.Image, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, req.Prompt)
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return imagegen.Image{}, ctx.Err()
		}
	}
	if f.err != nil {
		return imagegen.Image{}, f.err
	}
	return imagegen.Image{Data: []byte(req.Prompt), MIMEType: "image/png"}, nil
}

func (f *fakeGenerator) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}
