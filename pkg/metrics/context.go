package metrics

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

type contextKey struct {
	name string
}

// NewRelicContextKey is the context key under which the New Relic application
// is stored. Metrics are silently dropped when it isn't present.
var NewRelicContextKey = &contextKey{"newrelic-app"}

// NewContext returns a context carrying the New Relic application. A nil app
// leaves ctx untouched.
func NewContext(ctx context.Context, app *newrelic.Application) context.Context {
	if app == nil {
		return ctx
	}
	return context.WithValue(ctx, NewRelicContextKey, app)
}

// StartTransaction starts a New Relic transaction using the application on
// ctx, returning a context tracing into it. The returned end func is always
// safe to call.
func StartTransaction(ctx context.Context, name string) (context.Context, func(err error)) {
	app := appFromContext(ctx)
	if app == nil {
		return ctx, func(error) {}
	}

	txn := app.StartTransaction(name)
	return newrelic.NewContext(ctx, txn), func(err error) {
		if err != nil {
			txn.NoticeError(err)
		}
		txn.End()
	}
}
