package utils

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// Logf prints consistent server logs.
func Logf(format string, v ...any) {
	log.Printf("[folio] "+format, v...)
}

// ErrJSON produces a standard JSON error response.
func ErrJSON(msg string) map[string]any {
	return map[string]any{
		"success": false,
		"error":   msg,
	}
}

// PrettyJSON marshals with indentation.
func PrettyJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}

var ErrDataURL = errors.New("not a base64 data url")

// DecodeDataURL splits data:<mime>;base64,<payload> into its bytes and MIME type.
func DecodeDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, "", ErrDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", ErrDataURL
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, "", ErrDataURL
	}
	// some clients percent-encode the payload
	if strings.Contains(payload, "%") {
		if unescaped, err := url.PathUnescape(payload); err == nil {
			payload = unescaped
		}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrDataURL, err)
		}
	}
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return data, mime, nil
}

var ErrNoFlush = errors.New("response writer cannot stream")

// SSEWriter frames server-sent events on an echo response.
type SSEWriter struct {
	w      *echo.Response
	flush  http.Flusher
	closed bool
}

// NewSSEWriter writes the event-stream headers and flushes them so the
// client sees the stream open before the first event.
func NewSSEWriter(c echo.Context) (*SSEWriter, error) {
	res := c.Response()
	flusher, ok := res.Writer.(http.Flusher)
	if !ok {
		return nil, ErrNoFlush
	}
	h := res.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &SSEWriter{w: res, flush: flusher}, nil
}

// Event sends one named event. Strings are sent as-is, anything else as JSON.
// Events after Close are dropped.
func (s *SSEWriter) Event(name string, data any) error {
	if s.closed {
		return nil
	}
	payload, ok := data.(string)
	if !ok {
		b, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("sse %s: %w", name, err)
		}
		payload = string(b)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, payload); err != nil {
		return err
	}
	s.flush.Flush()
	return nil
}

// Close sends the terminal close event once.
func (s *SSEWriter) Close() {
	if s.closed {
		return
	}
	_ = s.Event("close", "null")
	s.closed = true
}

// LimitStr returns a string truncated to n runes with "..." appended if longer.
func LimitStr(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// SanitizeFilename keeps letters, digits, dash, underscore and dot.
func SanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), ".")
}

// StringContains checks if s contains any of the substrings in substr.
// An empty substring matches only an empty string. Set sensitive to true for case-sensitive match.
func StringContains(s string, sensitive bool, substr ...string) bool {
	if !sensitive {
		s = strings.ToLower(s)
	}
	for _, sub := range substr {
		if sub == "" {
			if s == "" {
				return true
			}
			continue
		}
		if !sensitive {
			sub = strings.ToLower(sub)
		}
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
