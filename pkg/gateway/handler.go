package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"nimbus-gw/nimbus/pkg/accounts"
	"nimbus-gw/nimbus/pkg/config"
	"nimbus-gw/nimbus/pkg/gateway/middleware"
	"nimbus-gw/nimbus/pkg/health"
	"nimbus-gw/nimbus/pkg/routing"
	"nimbus-gw/nimbus/pkg/telemetry/metrics"
	"nimbus-gw/nimbus/pkg/upstream"
)

// maxRequestBody bounds how much of an inbound body is buffered. Bodies
// must be buffered so a request can be replayed against another account
// on failover.
const maxRequestBody = 32 << 20

// ProxyHandler forwards inbound requests upstream with retry-with-failover
// across the account pool. It holds no mutable account state of its own;
// all health bookkeeping goes through the tracker.
type ProxyHandler struct {
	store          *accounts.Store
	tracker        *health.Tracker
	selector       *routing.Selector
	client         *upstream.Client
	collector      *metrics.Collector
	maxAttempts    int
	requestTimeout time.Duration
	logger         *slog.Logger
}

// NewProxyHandler creates the proxy handler. collector may be nil when
// metrics are disabled.
func NewProxyHandler(
	store *accounts.Store,
	tracker *health.Tracker,
	selector *routing.Selector,
	client *upstream.Client,
	collector *metrics.Collector,
	cfg config.Config,
) *ProxyHandler {
	return &ProxyHandler{
		store:          store,
		tracker:        tracker,
		selector:       selector,
		client:         client,
		collector:      collector,
		maxAttempts:    cfg.Routing.MaxAttempts,
		requestTimeout: cfg.Server.RequestTimeout,
		logger:         slog.Default().With("component", "gateway.proxy"),
	}
}

// ServeHTTP implements the failover loop:
//
//  1. Choose an eligible account not yet tried in this request.
//  2. Forward the request with that account's credential.
//  3. Record the outcome against the account.
//  4. Success relays the upstream response; a permanent error is the
//     request's own fault and is relayed immediately; every other
//     failure excludes the account and the loop continues.
//
// The loop is bounded by max_attempts (default: one attempt per
// configured account) and by the inbound request deadline.
func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, KindInternal, "failed to read request body", requestID)
		return
	}

	ctx := r.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	upReq := &upstream.Request{
		Method: r.Method,
		Path:   requestPath(r),
		Header: r.Header,
		Body:   body,
	}

	maxAttempts := h.maxAttempts
	if maxAttempts <= 0 {
		maxAttempts = h.store.Len()
	}

	excluding := make(map[string]bool)
	var lastOutcome upstream.Outcome
	attempts := 0

	for attempts < maxAttempts {
		account, err := h.selector.Choose(excluding, time.Now())
		if err != nil {
			if errors.Is(err, routing.ErrNoEligibleAccount) {
				break
			}
			h.recordRequest("internal_error", attempts)
			writeError(w, http.StatusInternalServerError, KindInternal, err.Error(), requestID)
			return
		}

		attempts++
		start := time.Now()
		resp, outcome := h.client.Send(ctx, account, upReq)
		latency := time.Since(start)
		lastOutcome = outcome

		h.recordOutcome(outcome, latency)

		switch outcome.Kind {
		case upstream.OutcomeSuccess:
			h.recordRequest("success", attempts)
			relayResponse(w, resp)
			return

		case upstream.OutcomePermanent:
			// Not the account's fault; failover will not help.
			h.recordRequest("upstream_permanent_error", attempts)
			status := outcome.StatusCode
			if status == 0 {
				status = http.StatusBadGateway
			}
			writeError(w, status, KindUpstreamPermanent, outcome.Err.Error(), requestID)
			return

		default:
			excluding[account.Name] = true

			// The inbound deadline takes precedence over failover:
			// the attempt is already charged to the account, the
			// caller gets a timeout now.
			if ctx.Err() != nil {
				h.logger.Warn("request deadline exceeded",
					"request_id", requestID,
					"attempts", attempts,
					"last_account", account.Name,
				)
				h.recordRequest("timeout", attempts)
				writeError(w, http.StatusGatewayTimeout, KindTimeout,
					"request deadline exceeded", requestID)
				return
			}

			h.logger.Warn("attempt failed, trying next account",
				"request_id", requestID,
				"account", account.Name,
				"outcome", outcome.Kind.String(),
				"attempt", attempts,
			)
		}
	}

	message := "all accounts exhausted"
	if lastOutcome.Err != nil {
		message = "all accounts exhausted, last error: " + lastOutcome.Err.Error()
	}
	h.logger.Error("request failed after exhausting accounts",
		"request_id", requestID,
		"attempts", attempts,
	)
	h.recordRequest("all_accounts_exhausted", attempts)
	writeError(w, http.StatusTooManyRequests, KindAllAccountsExhausted, message, requestID)
}

// recordOutcome updates the health tracker and metrics for one attempt.
func (h *ProxyHandler) recordOutcome(outcome upstream.Outcome, latency time.Duration) {
	if outcome.Kind == upstream.OutcomeSuccess {
		h.tracker.RecordSuccess(outcome.Account)
	} else {
		h.tracker.RecordFailure(outcome.Account, outcome.Kind, outcome.RetryAfter)
	}

	if h.collector != nil {
		h.collector.RecordAttempt(outcome.Account, outcome.Kind.String(), latency)
		h.collector.UpdateAccountStates(h.tracker.SnapshotAll())
	}
}

// recordRequest records the final result of one inbound request.
func (h *ProxyHandler) recordRequest(result string, attempts int) {
	if h.collector != nil {
		h.collector.RecordRequest(result, attempts)
	}
}

// requestPath returns the path plus query string of the inbound request.
func requestPath(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return r.URL.Path
	}
	return r.URL.Path + "?" + r.URL.RawQuery
}

// relayResponse writes a buffered upstream response to the caller.
func relayResponse(w http.ResponseWriter, resp *upstream.Response) {
	for key, vals := range resp.Header {
		for _, v := range vals {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	w.Write(resp.Body)
}
