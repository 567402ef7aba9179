package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/storefront/internal/constants"
)

var Tracer = otel.Tracer(constants.APP_STOREFRONT)

func SpanFromContext(c context.Context) trace.Span {
	return trace.SpanFromContext(c)
}
