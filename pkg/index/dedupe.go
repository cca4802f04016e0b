package index

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

type deduped struct {
	Service
	group singleflight.Group
}

type freshKey struct{}

// Fresh marks ctx so a deduplicated Content call starts a new request
// instead of joining one already in flight.
func Fresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshKey{}, true)
}

// Dedupe collapses concurrent Content calls for the same path and instant
// into one upstream request. The shared request outlives any single
// caller's context; each caller stops waiting when its own context ends.
func Dedupe(svc Service) Service {
	if svc == nil {
		return nil
	}
	if d, ok := svc.(*deduped); ok {
		return d
	}
	return &deduped{Service: svc}
}

func (d *deduped) Content(ctx context.Context, path string, asOf *time.Time) (Content, error) {
	key := path + "@" + FormatAsOf(asOf)
	if fresh, _ := ctx.Value(freshKey{}).(bool); fresh {
		d.group.Forget(key)
	}
	shared := context.WithoutCancel(ctx)
	ch := d.group.DoChan(key, func() (interface{}, error) {
		return d.Service.Content(shared, path, asOf)
	})
	select {
	case <-ctx.Done():
		return Content{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Content{}, res.Err
		}
		return res.Val.(Content), nil
	}
}
