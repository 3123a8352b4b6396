package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// Disk keeps each bucket as a directory under Root.
type Disk struct {
	Root string
}

var _ Storage = Disk{}

func (d Disk) path(bucket, file string) (string, error) {
	file, err := CleanFile(file)
	if err != nil {
		return "", err
	}
	if _, err := CleanFile(bucket); err != nil {
		return "", err
	}
	return filepath.Join(d.Root, bucket, filepath.FromSlash(file)), nil
}

func (d Disk) Open(ctx context.Context, bucket, file string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	p, err := d.path(bucket, file)
	if err != nil {
		return Object{}, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return Object{}, ErrNotFound
	}
	if err != nil {
		return Object{}, fmt.Errorf("read %s/%s: %w", bucket, file, err)
	}
	return Object{Data: data, ContentType: contentType(file, data)}, nil
}

func (d Disk) Put(ctx context.Context, bucket, file string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := d.path(bucket, file)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create bucket dir: %w", err)
	}
	return os.WriteFile(p, data, 0o644)
}

func contentType(file string, data []byte) string {
	if t := mime.TypeByExtension(path.Ext(file)); t != "" {
		return t
	}
	return http.DetectContentType(data)
}
