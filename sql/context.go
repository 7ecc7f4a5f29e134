package sql

import (
	"context"
	"os"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

const debugAnalyzerEnv = "DEBUG_QUERYENGINE"

// Context carries a standard context.Context, a logger, and a tracer through
// every phase of planning and evaluation. It is threaded explicitly (never
// stored in a struct field that outlives a single Analyze/Optimize/Plan
// call), passed to every RowIter and rule the same way.
type Context struct {
	context.Context
	logger *logrus.Entry
	tracer opentracing.Tracer
	debug  bool
}

// NewContext wraps a context.Context with a default logger and the global
// tracer. Use NewEmptyContext in tests that don't care about tracing.
func NewContext(ctx context.Context) *Context {
	_, debug := os.LookupEnv(debugAnalyzerEnv)
	return &Context{
		Context: ctx,
		logger:  logrus.WithField("component", "queryengine"),
		tracer:  opentracing.GlobalTracer(),
		debug:   debug,
	}
}

// NewEmptyContext returns a Context over context.Background().
func NewEmptyContext() *Context {
	return NewContext(context.Background())
}

// GetLogger returns the logger scoped to this context.
func (c *Context) GetLogger() *logrus.Entry {
	return c.logger
}

// WithLogger returns a new Context with the given logger attached.
func (c *Context) WithLogger(logger *logrus.Entry) *Context {
	n := *c
	n.logger = logger
	return &n
}

// Debug reports whether verbose rule-application logging is enabled.
func (c *Context) Debug() bool {
	return c != nil && c.debug
}

// Span starts an opentracing span for name, returning the span and a derived
// Context carrying it. Callers must Finish the span. Every rule batch and
// every physical operator's Execute wraps its work in a Span, mirroring the
// teacher's ctx.Span(...) calls around RowIter construction.
func (c *Context) Span(name string, opts ...opentracing.StartSpanOption) (opentracing.Span, *Context) {
	span := c.tracer.StartSpan(name, opts...)
	ctx := *c
	ctx.Context = opentracing.ContextWithSpan(c.Context, span)
	return span, &ctx
}
