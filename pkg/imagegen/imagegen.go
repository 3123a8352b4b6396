package imagegen

import (
	"context"
	"errors"
	"net/http"
)

var ErrNoImage = errors.New("no image returned")

// Reference is an image the model should draw from.
type Reference struct {
	Data     []byte
	MIMEType string
}

type Request struct {
	Prompt    string
	Reference *Reference
}

type Image struct {
	Data     []byte
	MIMEType string
}

// Generator defines an interface for turning a prompt into one image.
// Implementations never retry; the caller owns retry and timeout policy.
type Generator interface {
	Generate(ctx context.Context, req Request) (Image, error)
}

func NewReference(data []byte) *Reference {
	if len(data) == 0 {
		return nil
	}
	return &Reference{Data: data, MIMEType: http.DetectContentType(data)}
}
