package routes

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"golang.org/x/time/rate"
)

type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*utils.TokenData, apierror.ErrorResponse)
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// Authenticate resolves the bearer token and stores the caller in the context.
func Authenticate(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return c.JSON(apierror.MissingAuthTokenError.Code(), apierror.MissingAuthTokenError)
			}

			data, apierr := auth.Authenticate(c.Request().Context(), raw)
			if apierr != nil {
				return c.JSON(apierr.Code(), apierr)
			}
			utils.SetTokenDataCtx(c, data)
			return next(c)
		}
	}
}

// OptionalAuthenticate sets the caller when a valid bearer token is present
// and lets anonymous requests through.
func OptionalAuthenticate(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := bearerToken(c); raw != "" {
				if data, apierr := auth.Authenticate(c.Request().Context(), raw); apierr == nil {
					utils.SetTokenDataCtx(c, data)
				}
			}
			return next(c)
		}
	}
}

// RequireRole must run after Authenticate.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			data, err := utils.ParseTokenDataCtx(c)
			if err != nil {
				return c.JSON(apierror.MissingAuthTokenError.Code(), apierror.MissingAuthTokenError)
			}
			if !slices.Contains(roles, data.Role) {
				return c.JSON(apierror.InsufficientRoleError.Code(), apierror.InsufficientRoleError)
			}
			return next(c)
		}
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps a token bucket per client IP. Buckets idle for longer
// than the sweep interval are dropped.
type IPRateLimiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor
	swept    time.Time
}

const sweepInterval = 10 * time.Minute

func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		visitors: map[string]*visitor{},
		swept:    time.Now(),
	}
}

func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.swept) > sweepInterval {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > sweepInterval {
				delete(l.visitors, key)
			}
		}
		l.swept = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.Allow()
}

func (l *IPRateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return c.JSON(apierror.TooManyRequests.Code(), apierror.TooManyRequests)
			}
			return next(c)
		}
	}
}

// HTTPErrorHandler renders echo's own errors in the API error shape.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var resp apierror.ErrorResponse
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he) && he.Code == http.StatusNotFound:
		resp = apierror.RouteNotFoundError
	case errors.As(err, &he) && he.Code == http.StatusMethodNotAllowed:
		resp = apierror.RouteNotFoundError
	case errors.As(err, &he) && he.Code < http.StatusInternalServerError:
		resp = apierror.NewSimple(he.Code, http.StatusText(he.Code))
	default:
		log.Errorf("unhandled error on %s %s: %v", c.Request().Method, c.Path(), err)
		resp = apierror.InternalServerError
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(resp.Code())
	} else {
		err = c.JSON(resp.Code(), resp)
	}
	if err != nil {
		log.Errorf("failed to write error response: %v", err)
	}
}
