// Package dispatcher turns tool invocations into Bear x-callback-url calls.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/taigrr/bear-mcp/internal/actions"
	"github.com/taigrr/bear-mcp/internal/callback"
	"github.com/taigrr/bear-mcp/internal/opener"
	"github.com/taigrr/bear-mcp/internal/types"
	"github.com/taigrr/bear-mcp/internal/xcallback"
)

var (
	// ErrMissingToken is returned by New when no API token is configured.
	ErrMissingToken = errors.New("bear API token is not configured")
	// ErrTimeout is returned when Bear does not call back in time.
	ErrTimeout = errors.New("timed out waiting for bear callback")
)

const (
	paramToken   = "token"
	paramSuccess = "x-success"
	paramError   = "x-error"
)

// Callbacks registers invocations awaiting Bear's x-success/x-error call.
type Callbacks interface {
	Expect(action string) *callback.Pending
}

// Options configures a Dispatcher.
type Options struct {
	Token string
	// Callbacks is nil when responses are not awaited.
	Callbacks Callbacks
	Timeout   time.Duration
	// Quiet adds each action's parameters that keep Bear in the background.
	Quiet  bool
	Logger *log.Logger
}

// Dispatcher maps tool invocations onto Bear actions.
type Dispatcher struct {
	catalog   *actions.Catalog
	opener    opener.Opener
	token     string
	callbacks Callbacks
	timeout   time.Duration
	quiet     bool
	logger    *log.Logger
}

// New creates a Dispatcher. The token is fixed for its lifetime.
func New(catalog *actions.Catalog, op opener.Opener, opts Options) (*Dispatcher, error) {
	if opts.Token == "" {
		return nil, ErrMissingToken
	}
	if catalog == nil {
		return nil, errors.New("action catalog is required")
	}
	if op == nil {
		op = opener.Default()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Dispatcher{
		catalog:   catalog,
		opener:    op,
		token:     opts.Token,
		callbacks: opts.Callbacks,
		timeout:   opts.Timeout,
		quiet:     opts.Quiet,
		logger:    opts.Logger,
	}, nil
}

// Catalog returns the action catalog the dispatcher serves.
func (d *Dispatcher) Catalog() *actions.Catalog {
	return d.catalog
}

// Build validates req for the named action and returns the URL to open,
// without callback parameters.
func (d *Dispatcher) Build(name string, req types.Request) (string, error) {
	action, params, err := d.prepare(name, req)
	if err != nil {
		return "", err
	}
	return xcallback.Build(action.Path, params), nil
}

func (d *Dispatcher) prepare(name string, req types.Request) (*actions.Action, xcallback.Params, error) {
	action, err := d.catalog.Lookup(name)
	if err != nil {
		return nil, xcallback.Params{}, err
	}
	params, err := action.Encode(req)
	if err != nil {
		return nil, xcallback.Params{}, err
	}
	if d.quiet {
		for _, q := range action.Quiet {
			if _, set := params.Get(q.Key); !set {
				params.Set(q.Key, q.Value)
			}
		}
	}
	params.Set(paramToken, d.token)
	return action, params, nil
}

// Dispatch runs the named action. When the action returns data and
// callbacks are enabled, Dispatch blocks until Bear calls back, ctx ends
// or the timeout elapses; otherwise it returns an acknowledgement as soon
// as the URL is opened.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, req types.Request) (*types.Response, error) {
	action, params, err := d.prepare(name, req)
	if err != nil {
		return nil, err
	}

	var pending *callback.Pending
	if d.callbacks != nil && action.ExpectsResponse() {
		pending = d.callbacks.Expect(action.Path)
		defer pending.Cancel()
		params.Set(paramSuccess, pending.SuccessURL)
		params.Set(paramError, pending.ErrorURL)
	}

	u := xcallback.Build(action.Path, params)
	d.logger.Debug("opening bear url", "action", action.Path, "url", xcallback.Redact(u, paramToken))
	if err := d.opener.Open(ctx, u); err != nil {
		return nil, fmt.Errorf("%s: %w", action.Tool, err)
	}

	if pending == nil {
		return &types.Response{Action: action.Path, Acknowledged: true}, nil
	}

	waitCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	values, err := pending.Wait(waitCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: %s after %s", ErrTimeout, action.Tool, d.timeout)
		}
		return nil, fmt.Errorf("%s: %w", action.Tool, err)
	}
	d.logger.Debug("bear callback received", "action", action.Path, "elapsed", time.Since(start))

	return types.NewResponse(action.Path, values), nil
}
