package server

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"folio/pkg/imagegen"
)

type fakeQueue struct {
	mu   sync.Mutex
	reqs []imagegen.Request
	img  imagegen.Image
	err  error

	pending int
}

func (q *fakeQueue) Start() {}
func (q *fakeQueue) Stop()  {}
func (q *fakeQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}

func (q *fakeQueue) Add(ctx context.Context, req imagegen.Request) (chan imagegen.Image, chan error, error) {
	q.mu.Lock()
	q.reqs = append(q.reqs, req)
	q.mu.Unlock()

	respCh := make(chan imagegen.Image, 1)
	errCh := make(chan error, 1)
	if q.err != nil {
		errCh <- q.err
		close(respCh)
	} else {
		respCh <- q.img
		close(errCh)
	}
	return respCh, errCh, nil
}

func (q *fakeQueue) requests() []imagegen.Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]imagegen.Request(nil), q.reqs...)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := range 4 {
		img.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
