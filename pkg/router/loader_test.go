package router

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failing(err error) Producer {
	return func(ctx context.Context) (*Content, error) {
		return nil, err
	}
}

func counting(key string, calls *int32) Producer {
	return func(ctx context.Context) (*Content, error) {
		atomic.AddInt32(calls, 1)
		return &Content{Key: key}, nil
	}
}

func resolve(t *testing.T, p Pattern, path string) *Route {
	t.Helper()
	r := mustNew(t, []Pattern{p})
	route, err := r.Resolve(context.Background(), path)
	require.NoError(t, err)
	return route
}

func TestLoadResolvesContent(t *testing.T) {
	route := resolve(t, Pattern{
		Re:      `^x$`,
		Page:    static("page"),
		Error:   static("error"),
		Layouts: []Layout{{Page: static("outer")}, {Page: static("inner"), Error: static("inner-error")}},
	}, "/x")

	require.NoError(t, NewLoader().Load(context.Background(), route))
	assert.True(t, route.Loaded())

	page, ok := route.Page.Content()
	require.True(t, ok)
	assert.Equal(t, "page", page.Key)

	require.Len(t, route.Layouts, 2)
	outer, _ := route.Layouts[0].Page.Content()
	inner, _ := route.Layouts[1].Page.Content()
	assert.Equal(t, "outer", outer.Key)
	assert.Equal(t, "inner", inner.Key)

	assert.Equal(t, Loaded, route.Error.State())
	assert.Equal(t, Loaded, route.Layouts[1].Error.State())
}

func TestLoadIsIdempotent(t *testing.T) {
	var calls int32
	route := resolve(t, Pattern{Re: `^x$`, Page: counting("page", &calls)}, "/x")

	loader := NewLoader()
	require.NoError(t, loader.Load(context.Background(), route))
	require.NoError(t, loader.Load(context.Background(), route))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLoadPageFailure(t *testing.T) {
	boom := errors.New("boom")
	route := resolve(t, Pattern{Re: `^x$`, Page: failing(boom)}, "/x")

	err := NewLoader().Load(context.Background(), route)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, PartPage, le.Part)
	assert.Equal(t, Failed, route.Page.State())
	assert.ErrorIs(t, route.Page.Err(), boom)
	assert.False(t, route.Loaded())
}

func TestLoadLayoutFailure(t *testing.T) {
	boom := errors.New("layout missing")
	route := resolve(t, Pattern{
		Re:      `^x$`,
		Page:    static("page"),
		Layouts: []Layout{{Page: static("ok")}, {Page: failing(boom)}},
	}, "/x")

	err := NewLoader().Load(context.Background(), route)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, PartLayout, le.Part)
	assert.Equal(t, 1, le.Index)
	assert.Contains(t, err.Error(), "layout 1")
}

func TestLoadErrorProducerFailureIsNotReturned(t *testing.T) {
	route := resolve(t, Pattern{Re: `^x$`, Page: static("page"), Error: failing(errors.New("no error page"))}, "/x")

	require.NoError(t, NewLoader().Load(context.Background(), route))
	assert.Equal(t, Failed, route.Error.State())
}

func TestLoadNilContent(t *testing.T) {
	route := resolve(t, Pattern{Re: `^x$`, Page: func(ctx context.Context) (*Content, error) { return nil, nil }}, "/x")

	err := NewLoader().Load(context.Background(), route)
	assert.ErrorIs(t, err, errNilContent)
}

func TestLoadCanceledContext(t *testing.T) {
	route := resolve(t, Pattern{Re: `^x$`, Page: static("page")}, "/x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewLoader().Load(ctx, route)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Unloaded, route.Page.State())
}

func TestLoadRunsDataLoaderOnServer(t *testing.T) {
	for _, side := range []Side{SideServer, SideUniversal} {
		t.Run(side.String(), func(t *testing.T) {
			route := resolve(t, Pattern{
				Re:   `^tasks/(?<id>[0-9]+)$`,
				Side: side,
				Page: static("page"),
				JS: func(ctx context.Context, r *Route) (map[string]any, error) {
					id, err := r.Slugs.Int("id")
					if err != nil {
						return nil, err
					}
					r.Title = "Task " + r.Slugs["id"]
					return map[string]any{"id": id}, nil
				},
				Meta: Meta{Title: "Task"},
			}, "/tasks/5")

			require.NoError(t, NewLoader().Load(context.Background(), route))
			assert.Equal(t, map[string]any{"id": int64(5)}, route.Data)
			assert.Equal(t, "Task 5", route.Title)
			assert.Equal(t, "Task", route.Pattern.Title)
			assert.False(t, route.ClientData)
		})
	}
}

func TestLoadSkipsDataLoaderOnClient(t *testing.T) {
	ran := false
	route := resolve(t, Pattern{
		Re:   `^x$`,
		Side: SideClient,
		Page: static("page"),
		JS: func(ctx context.Context, r *Route) (map[string]any, error) {
			ran = true
			return nil, nil
		},
	}, "/x")

	require.NoError(t, NewLoader().Load(context.Background(), route))
	assert.False(t, ran)
	assert.True(t, route.ClientData)
	assert.Nil(t, route.Data)
}

func TestLoadDataLoaderFailure(t *testing.T) {
	boom := errors.New("db down")
	route := resolve(t, Pattern{
		Re:   `^x$`,
		Page: static("page"),
		JS: func(ctx context.Context, r *Route) (map[string]any, error) {
			return nil, boom
		},
	}, "/x")

	err := NewLoader().Load(context.Background(), route)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, PartJS, le.Part)
	assert.ErrorIs(t, err, boom)
}

func TestErrorPagePrefersInnermost(t *testing.T) {
	tests := []struct {
		name    string
		pattern Pattern
		want    string
		wantErr error
	}{
		{
			name: "route error page",
			pattern: Pattern{
				Re: `^x$`, Page: static("page"), Error: static("own"),
				Layouts: []Layout{{Page: static("l"), Error: static("layout")}},
			},
			want: "own",
		},
		{
			name: "innermost layout",
			pattern: Pattern{
				Re: `^x$`, Page: static("page"),
				Layouts: []Layout{
					{Page: static("outer"), Error: static("outer-error")},
					{Page: static("inner"), Error: static("inner-error")},
				},
			},
			want: "inner-error",
		},
		{
			name: "skips failing",
			pattern: Pattern{
				Re: `^x$`, Page: static("page"), Error: failing(errors.New("gone")),
				Layouts: []Layout{{Page: static("outer"), Error: static("outer-error")}, {Page: static("inner")}},
			},
			want: "outer-error",
		},
		{
			name:    "none",
			pattern: Pattern{Re: `^x$`, Page: static("page")},
			wantErr: ErrNoErrorPage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := resolve(t, tt.pattern, "/x")
			c, err := NewLoader().ErrorPage(context.Background(), route)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Key)
		})
	}
}

func TestMetricsRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))

	r, err := New([]Pattern{{Re: `^x$`, Page: static("x")}}, WithMetrics(m))
	require.NoError(t, err)

	route, err := r.Resolve(context.Background(), "/x")
	require.NoError(t, err)
	_, err = r.Resolve(context.Background(), "/y")
	require.Error(t, err)
	_, err = r.Resolve(context.Background(), "/../y")
	require.Error(t, err)

	require.NoError(t, NewLoader(WithMetrics(m)).Load(context.Background(), route))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("match")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loads.WithLabelValues("ok")))
}
