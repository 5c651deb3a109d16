package router

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Loader runs the producers of resolved routes.
type Loader struct {
	settings
}

// NewLoader creates a loader. It accepts the same options as New.
func NewLoader(opts ...Option) *Loader {
	return &Loader{settings: newSettings(opts)}
}

// Load invokes the route's page and layout producers concurrently and,
// once they succeed, its data loader. Error producers are loaded alongside
// but their failures are only recorded on the Lazy values.
//
// A page or layout failure cancels the remaining producers and is returned
// as a *LoadError. Lazy values that are already Loaded are not reloaded.
func (l *Loader) Load(ctx context.Context, r *Route) error {
	start := time.Now()

	ctx, span := l.tracer.Start(ctx, "router.Load", trace.WithAttributes(
		attribute.String("route.path", r.Path),
		attribute.Int("route.index", r.Index),
		attribute.Int("route.layouts", len(r.Layouts)),
	))
	defer span.End()

	err := l.load(ctx, r)

	l.metrics.observeLoad(err, start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.logger.Warn("route load failed", "path", r.Path, "pattern", r.Index, "error", err)
	}
	return err
}

func (l *Loader) load(ctx context.Context, r *Route) error {
	content, cctx := errgroup.WithContext(ctx)
	var errorPages errgroup.Group

	content.Go(func() error {
		if _, err := r.Page.Load(cctx); err != nil {
			return &LoadError{Part: PartPage, Index: -1, Err: err}
		}
		return nil
	})
	for i, layout := range r.Layouts {
		content.Go(func() error {
			if _, err := layout.Page.Load(cctx); err != nil {
				return &LoadError{Part: PartLayout, Index: i, Err: err}
			}
			return nil
		})
		if layout.Error != nil {
			errorPages.Go(func() error {
				// A failure stays on the Lazy for ErrorPage.
				layout.Error.Load(ctx)
				return nil
			})
		}
	}
	if r.Error != nil {
		errorPages.Go(func() error {
			// Not returned, as above.
			r.Error.Load(ctx)
			return nil
		})
	}

	err := content.Wait()
	errorPages.Wait()
	if err != nil {
		return err
	}

	js := r.Pattern.JS
	if js == nil {
		return nil
	}
	if !r.Side.RunsOnServer() {
		r.ClientData = true
		return nil
	}

	data, err := js(ctx, r)
	if err != nil {
		return &LoadError{Part: PartJS, Index: -1, Err: err}
	}
	r.Data = data
	return nil
}

// ErrorPage returns the error content closest to the page: the route's own
// error page, otherwise the innermost layout error page. Error producers
// that have not run yet are loaded first. It returns ErrNoErrorPage when
// the route has no usable error content.
func (l *Loader) ErrorPage(ctx context.Context, r *Route) (*Content, error) {
	candidates := make([]*Lazy, 0, len(r.Layouts)+1)
	candidates = append(candidates, r.Error)
	for i := len(r.Layouts) - 1; i >= 0; i-- {
		candidates = append(candidates, r.Layouts[i].Error)
	}

	for _, lazy := range candidates {
		if lazy == nil {
			continue
		}
		c, err := lazy.Load(ctx)
		if err != nil {
			l.logger.Debug("error page unavailable", "path", r.Path, "error", err)
			continue
		}
		return c, nil
	}
	return nil, ErrNoErrorPage
}
