package observability

import (
	"net/http"
	"time"

	sentryhttpclient "github.com/getsentry/sentry-go/httpclient"
)

// Outbound calls to these hosts carry sentry trace headers so payment and
// email latency shows up in the request trace.
var tracePropagationTargets = []string{
	"api.mercadopago.com",
	"api.resend.com",
}

// NewHTTPClient returns an http client whose transport reports outbound
// request spans to sentry.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: WrapRoundTripper(http.DefaultTransport),
	}
}

func WrapRoundTripper(base http.RoundTripper) http.RoundTripper {
	return sentryhttpclient.NewSentryRoundTripper(
		base,
		sentryhttpclient.WithTracePropagationTargets(tracePropagationTargets),
	)
}
