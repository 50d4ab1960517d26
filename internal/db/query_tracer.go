package db

import (
	"context"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5"
)

type querySpanKey struct{}

// queryTracer emits a sentry span per query when a transaction is active on
// the request context. Without one, tracing is skipped entirely.
type queryTracer struct{}

func newQueryTracer() *queryTracer {
	return &queryTracer{}
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	if sentry.SpanFromContext(ctx) == nil {
		return ctx
	}

	sql := condenseSQL(data.SQL)
	span := sentry.StartSpan(
		ctx,
		"db.query",
		sentry.WithDescription(sql),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	span.SetData("db.system", "postgresql")
	if op := sqlVerb(data.SQL); op != "" {
		span.SetData("db.operation", op)
	}

	return context.WithValue(span.Context(), querySpanKey{}, span)
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	span, _ := ctx.Value(querySpanKey{}).(*sentry.Span)
	if span == nil {
		return
	}

	if data.Err != nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("db.error", data.Err.Error())
	} else {
		span.Status = sentry.SpanStatusOK
		if rows := data.CommandTag.RowsAffected(); rows >= 0 {
			span.SetData("db.rows_affected", rows)
		}
	}

	span.Finish()
}

const maxTracedSQLLen = 512

// condenseSQL collapses whitespace so multi-line statements read as one
// span description, truncated to keep span payloads small.
func condenseSQL(sql string) string {
	condensed := strings.Join(strings.Fields(sql), " ")
	if condensed == "" {
		return "sql.query"
	}
	if len(condensed) > maxTracedSQLLen {
		return condensed[:maxTracedSQLLen]
	}
	return condensed
}

func sqlVerb(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}
