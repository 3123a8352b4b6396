package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/webp"
	"github.com/segmentio/ksuid"

	"folio/pkg/imagegen"
	"folio/pkg/media"
	"folio/pkg/queue/generation"
	"folio/pkg/utils"
)

var errNoGenerator = errors.New("image generation is not configured")

// toWebP transcodes a generated image to a high-quality WebP.
func toWebP(data []byte) ([]byte, error) {
	if http.DetectContentType(data) == "image/webp" {
		return data, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, webp.Options{Lossless: false, Quality: 100}); err != nil {
		return nil, fmt.Errorf("failed to encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// render queues req and waits for the image or for ctx to end.
func (s *Server) render(ctx context.Context, req imagegen.Request) (imagegen.Image, error) {
	if s.Queue == nil {
		return imagegen.Image{}, errNoGenerator
	}
	respCh, errCh, err := s.Queue.Add(ctx, req)
	if err != nil {
		return imagegen.Image{}, err
	}

	select {
	case <-ctx.Done():
		return imagegen.Image{}, ctx.Err()
	case err := <-errCh:
		if err == nil {
			// closed on success, the image is already waiting
			return <-respCh, nil
		}
		return imagegen.Image{}, err
	case img, ok := <-respCh:
		if !ok {
			return imagegen.Image{}, <-errCh
		}
		return img, nil
	}
}

// store writes img into the generated bucket and returns its id and masked URL.
func (s *Server) store(ctx context.Context, img imagegen.Image) (string, string, error) {
	data, err := toWebP(img.Data)
	if err != nil {
		return "", "", err
	}
	id := ksuid.New().String()
	file := id + ".webp"
	if err := s.Media.Put(ctx, media.BucketGenerated, file, data, "image/webp"); err != nil {
		return "", "", fmt.Errorf("failed to store image: %w", err)
	}
	return id, media.URL(media.BucketGenerated, file), nil
}

// reference resolves a stored bucket/file pair into an attachable image.
func (s *Server) reference(ctx context.Context, bucket, file string) *imagegen.Reference {
	file, err := s.Buckets.Clean(bucket, file)
	if err != nil {
		log.Warn("ignoring reference image", "bucket", bucket, "file", file, "error", err)
		return nil
	}
	obj, err := s.Media.Open(ctx, bucket, file)
	if err != nil {
		log.Warn("reference image unavailable", "bucket", bucket, "file", file, "error", err)
		return nil
	}
	return &imagegen.Reference{Data: obj.Data, MIMEType: obj.ContentType}
}

// storedReference splits "bucket/path/to/file".
func (s *Server) storedReference(ctx context.Context, ref string) *imagegen.Reference {
	bucket, file, ok := strings.Cut(ref, "/")
	if !ok {
		log.Warn("reference image has no bucket", "ref", ref)
		return nil
	}
	return s.reference(ctx, bucket, file)
}

// referenceFromURL accepts a data URL or one of our own /api/media URLs.
func (s *Server) referenceFromURL(ctx context.Context, raw string) *imagegen.Reference {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return nil
	case strings.HasPrefix(raw, "data:"):
		data, mime, err := utils.DecodeDataURL(raw)
		if err != nil {
			log.Warn("ignoring undecodable reference", "error", err)
			return nil
		}
		return &imagegen.Reference{Data: data, MIMEType: mime}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Path != media.Route {
		log.Warn("ignoring foreign reference url", "url", utils.LimitStr(raw, 80))
		return nil
	}
	return s.reference(ctx, u.Query().Get("bucket"), u.Query().Get("file"))
}

func generationStatus(err error) int {
	switch {
	case errors.Is(err, generation.ErrQueueFull), errors.Is(err, errNoGenerator):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// logTokens may fetch the encoding on first use, so callers run it in the background.
func logTokens(prompt string, start time.Time) {
	n, err := utils.NumTokens(prompt)
	if err != nil {
		log.Debug("token count unavailable", "error", err)
		return
	}
	log.Info("prompt built", "tokens", n, "took", time.Since(start))
}
