package queue

import (
	"context"

	"folio/pkg/imagegen"
)

type Queue interface {
	Start()
	Stop()
	Add(ctx context.Context, req imagegen.Request) (chan imagegen.Image, chan error, error)
	Len() int
}
