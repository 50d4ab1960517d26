package handlers

import (
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"

	"github.com/usualetiquetas/storefront/internal/observability"
)

// MetricsContext attaches a pre-attributed meter to the request context so
// downstream code can emit metrics without rebuilding request attributes.
func (h *Handlers) MetricsContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		meter := sentry.NewMeter(ctx).WithCtx(ctx)
		meter.SetAttributes(h.requestAttributes(r)...)

		next.ServeHTTP(w, r.WithContext(observability.WithMeter(ctx, meter)))
	})
}

func (h *Handlers) requestAttributes(r *http.Request) []attribute.Builder {
	attrs := []attribute.Builder{
		attribute.String("http.request_id", requestIDFor(r)),
		attribute.String("http.method", r.Method),
		attribute.String("network.client.ip", clientIP(r)),
	}
	if route := routeLabel(r); route != "" {
		attrs = append(attrs, attribute.String("http.route", route))
	}
	if ua := strings.TrimSpace(r.UserAgent()); ua != "" {
		attrs = append(attrs, attribute.String("http.user_agent", ua))
	}
	if r.ContentLength >= 0 {
		attrs = append(attrs, attribute.Int64("http.request_content_length", r.ContentLength))
	}

	// Tag cart-scoped requests so metrics can be sliced per visitor cart.
	if sess, err := h.sessionManager.GetSession(r.Context(), r); err == nil && sess != nil {
		if cartID := strings.TrimSpace(sess.CartID); cartID != "" {
			attrs = append(attrs, attribute.String("cart.id", cartID))
		}
	}

	return attrs
}
