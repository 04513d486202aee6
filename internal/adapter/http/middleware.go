package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"bidpilot/internal/config/configs"
	"bidpilot/internal/core/domain"
)

type ctxKey int

const sessionKey ctxKey = iota

// SessionResolver turns an incoming request into a domain.Session. Callers
// present a Bearer JWT whose subject is the tenant and whose platform_token
// claim is the ads platform credential. Single-tenant deployments instead
// configure a static token, under which every request runs as the fixed
// tenant.
type SessionResolver struct {
	secret       []byte
	staticToken  domain.Credential
	staticTenant string
}

// NewSessionResolver builds a resolver from the auth configuration.
func NewSessionResolver(cfg configs.Auth) *SessionResolver {
	tenant := cfg.StaticTenant
	if tenant == "" {
		tenant = domain.DefaultTenant
	}
	return &SessionResolver{
		secret:       []byte(cfg.JWTSecret),
		staticToken:  domain.Credential(cfg.StaticToken),
		staticTenant: tenant,
	}
}

type sessionClaims struct {
	PlatformToken string `json:"platform_token"`
	jwt.RegisteredClaims
}

// Middleware resolves the session and stores it in the request context.
// Requests with no resolvable session get a 401 with the auth category.
func (s *SessionResolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.resolve(r)
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *SessionResolver) resolve(r *http.Request) (domain.Session, error) {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && len(s.secret) > 0 {
		var claims sessionClaims
		parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		})
		if err != nil || !parsed.Valid {
			return domain.Session{}, domain.E(domain.CategoryAuth, "invalid session token")
		}
		if claims.Subject == "" || claims.PlatformToken == "" {
			return domain.Session{}, domain.E(domain.CategoryAuth, "session token missing tenant or credential")
		}
		return domain.Session{
			Tenant:     claims.Subject,
			Credential: domain.Credential(claims.PlatformToken),
		}, nil
	}
	if s.staticToken != "" {
		return domain.Session{Tenant: s.staticTenant, Credential: s.staticToken}, nil
	}
	return domain.Session{}, domain.E(domain.CategoryAuth, "missing session")
}

// sessionFrom returns the session placed in the context by Middleware.
func sessionFrom(ctx context.Context) domain.Session {
	sess, _ := ctx.Value(sessionKey).(domain.Session)
	return sess
}

// requestID tags every request and response with a correlation ID and logs
// the request at debug level.
func (h *Handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		h.logger.Debug("request",
			slog.String("id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}
