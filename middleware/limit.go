package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	goThrottle "github.com/MrEthical07/goThrottle"
)

type decisionContextKey struct{}

// DecisionFromContext returns the admission decision made for the current
// request. Handlers can use it to surface remaining-quota information in
// response bodies.
func DecisionFromContext(ctx context.Context) (goThrottle.Decision, bool) {
	d, ok := ctx.Value(decisionContextKey{}).(goThrottle.Decision)
	return d, ok
}

// Limit enforces the named category's policy around next.
func Limit(engine *goThrottle.Engine, category string) func(http.Handler) http.Handler {
	return limit(engine, category, nil)
}

// LimitWith enforces a call-site policy instead of the category's
// configured one. Role multipliers still apply on top of it.
func LimitWith(engine *goThrottle.Engine, category string, policy goThrottle.LimitPolicy) func(http.Handler) http.Handler {
	return limit(engine, category, &policy)
}

// Category shorthands mirroring the built-in policy table.

func Auth(engine *goThrottle.Engine) func(http.Handler) http.Handler {
	return Limit(engine, "auth")
}

func API(engine *goThrottle.Engine) func(http.Handler) http.Handler {
	return Limit(engine, "api")
}

func Upload(engine *goThrottle.Engine) func(http.Handler) http.Handler {
	return Limit(engine, "upload")
}

func Emergency(engine *goThrottle.Engine) func(http.Handler) http.Handler {
	return Limit(engine, "emergency")
}

func Admin(engine *goThrottle.Engine) func(http.Handler) http.Handler {
	return Limit(engine, "admin")
}

func limit(engine *goThrottle.Engine, category string, override *goThrottle.LimitPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			identity := goThrottle.ResolveIdentity(goThrottle.PrincipalFromContext(ctx), ClientIP(r))

			decision := engine.Admit(ctx, goThrottle.AdmitRequest{
				Category: category,
				Identity: identity,
				Override: override,
			})

			setRateLimitHeaders(w, decision)

			switch decision.Outcome {
			case goThrottle.OutcomeBlocked:
				writeDenied(w, decision, "Your address has been temporarily blocked due to suspicious activity")
				return
			case goThrottle.OutcomeRateLimited:
				writeDenied(w, decision, "Rate limit exceeded. Please try again later.")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, decisionContextKey{}, decision)))
		})
	}
}

// setRateLimitHeaders attaches the X-RateLimit-* trio on every non-degraded
// decision, allowed or not. Degraded (fail-open) decisions have no
// metadata to report.
func setRateLimitHeaders(w http.ResponseWriter, d goThrottle.Decision) {
	if d.Degraded || d.Limit <= 0 {
		return
	}

	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
}

func writeDenied(w http.ResponseWriter, d goThrottle.Decision, message string) {
	if seconds := int64(d.RetryAfter.Seconds()); seconds > 0 {
		w.Header().Set("Retry-After", strconv.FormatInt(seconds, 10))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":  message,
		"status": d.Outcome.String(),
	})
}

// ClientIP resolves the request's client address: a context value from
// [goThrottle.WithClientIP] wins, then the first hop of X-Forwarded-For,
// then X-Real-IP, then the socket peer address.
func ClientIP(r *http.Request) string {
	if ip := goThrottle.ClientIPFromContext(r.Context()); ip != "" {
		return ip
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
