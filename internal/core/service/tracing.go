package service

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
)

var tracer = otel.Tracer("github.com/strivezine/blog-system/internal/core/service")

// endSpan marks span as failed when err is non-nil and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

type nopRecorder struct{}

func (nopRecorder) Record(domain.AuditEvent) {}

func recorderOrNop(r ports.AuditRecorder) ports.AuditRecorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
