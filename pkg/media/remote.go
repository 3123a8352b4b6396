package media

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

type Doer interface {
	DoRequest(req *http.Request) ([]byte, error)
}

// Remote reads public objects from the backend's storage API and uploads
// with the service key.
type Remote struct {
	base string
	key  string
	http Doer
}

var _ Storage = (*Remote)(nil)

func NewRemote(baseURL, key string, doer Doer) *Remote {
	if doer == nil {
		doer = httpkit.New(30 * time.Second)
	}
	return &Remote{base: strings.TrimRight(baseURL, "/"), key: key, http: doer}
}

func (r *Remote) objectURL(public bool, bucket, file string) string {
	segs := strings.Split(file, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	p := "/storage/v1/object/"
	if public {
		p += "public/"
	}
	return r.base + p + url.PathEscape(bucket) + "/" + strings.Join(segs, "/")
}

func (r *Remote) Open(ctx context.Context, bucket, file string) (Object, error) {
	file, err := CleanFile(file)
	if err != nil {
		return Object{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.objectURL(true, bucket, file), nil)
	if err != nil {
		return Object{}, err
	}
	data, err := r.http.DoRequest(req)
	if err != nil {
		return Object{}, fmt.Errorf("fetch %s/%s: %w", bucket, file, err)
	}
	return Object{Data: data, ContentType: contentType(file, data)}, nil
}

func (r *Remote) Put(ctx context.Context, bucket, file string, data []byte, ct string) error {
	file, err := CleanFile(file)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.objectURL(false, bucket, file), bytes.NewReader(data))
	if err != nil {
		return err
	}
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	req.Header.Set("Content-Type", ct)
	req.Header.Set("x-upsert", "true")
	if r.key != "" {
		req.Header.Set("apikey", r.key)
		req.Header.Set("Authorization", "Bearer "+r.key)
	}
	if _, err := r.http.DoRequest(req); err != nil {
		return fmt.Errorf("upload %s/%s: %w", bucket, file, err)
	}
	return nil
}
