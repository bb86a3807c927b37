package rest

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/port"

	limiterpkg "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimitMiddleware ограничивает число запросов с одного адреса в минуту.
// perMinute <= 0 отключает ограничение.
func RateLimitMiddleware(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	limiter := limiterpkg.New(memory.NewStore(), limiterpkg.Rate{
		Period: time.Minute,
		Limit:  int64(perMinute),
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			limitCtx, err := limiter.Get(r.Context(), key)
			if err != nil {
				// при ошибке лимитера запрос пропускается
				contextkeys.LoggerFromContext(r.Context()).Error("Rate limiter failed", err, nil)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(limitCtx.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(limitCtx.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(limitCtx.Reset, 10))

			if limitCtx.Reached {
				contextkeys.LoggerFromContext(r.Context()).Warn("Rate limit exceeded", port.Fields{"client": key})
				WriteJSONError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
