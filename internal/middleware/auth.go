// Package middleware provides HTTP middleware: session authentication,
// static-token authentication for webhooks, role guards, and CORS.
package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/neomind180-byte/neomind180-sub000/internal/database"
	"github.com/neomind180-byte/neomind180-sub000/internal/httputil"
)

// RoleCoach marks the privileged human-coach identity. It is carried as a
// role claim on the session, never as a hardcoded user id.
const RoleCoach = "coach"

type contextKey string

const (
	ctxKeyUserID contextKey = "user_id"
	ctxKeyEmail  contextKey = "email"
	ctxKeyRole   contextKey = "role"
	ctxKeyToken  contextKey = "access_token"
)

// Claims are the Supabase JWT claims the service reads.
type Claims struct {
	Email       string                 `json:"email,omitempty"`
	AppMetadata map[string]interface{} `json:"app_metadata,omitempty"`
	jwt.RegisteredClaims
}

// SessionVerifier resolves a bearer token to an authenticated identity.
type SessionVerifier interface {
	GetUser(ctx context.Context, accessToken string) (*database.AuthUser, error)
}

// Auth authenticates requests bearing a Supabase session token. When a JWT
// secret is configured the token is verified locally (HS256); otherwise it
// is resolved against GoTrue.
type Auth struct {
	jwtSecret []byte
	verifier  SessionVerifier
	log       zerolog.Logger
}

// NewAuth creates session-auth middleware. jwtSecret may be empty when a
// verifier is provided.
func NewAuth(jwtSecret string, verifier SessionVerifier, log zerolog.Logger) *Auth {
	return &Auth{
		jwtSecret: []byte(jwtSecret),
		verifier:  verifier,
		log:       log,
	}
}

// Require rejects requests without a valid session token.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httputil.Unauthorized(w, "missing authorization")
			return
		}

		ctx, err := a.resolve(r.Context(), token)
		if err != nil {
			a.log.Warn().Err(err).Msg("session validation failed")
			httputil.Unauthorized(w, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional attaches identity when a valid session token is present and
// passes the request through otherwise.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token != "" {
			if ctx, err := a.resolve(r.Context(), token); err == nil {
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Auth) resolve(ctx context.Context, token string) (context.Context, error) {
	if len(a.jwtSecret) > 0 {
		claims := &Claims{}
		_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.jwtSecret, nil
		})
		if err != nil {
			return nil, err
		}
		role := ""
		if v, ok := claims.AppMetadata["role"].(string); ok {
			role = v
		}
		ctx = context.WithValue(ctx, ctxKeyUserID, claims.Subject)
		ctx = context.WithValue(ctx, ctxKeyEmail, claims.Email)
		ctx = context.WithValue(ctx, ctxKeyRole, role)
		ctx = context.WithValue(ctx, ctxKeyToken, token)
		return ctx, nil
	}

	user, err := a.verifier.GetUser(ctx, token)
	if err != nil {
		return nil, err
	}
	role := ""
	if v, ok := user.AppMetadata["role"].(string); ok {
		role = v
	}
	ctx = context.WithValue(ctx, ctxKeyUserID, user.ID)
	ctx = context.WithValue(ctx, ctxKeyEmail, user.Email)
	ctx = context.WithValue(ctx, ctxKeyRole, role)
	ctx = context.WithValue(ctx, ctxKeyToken, token)
	return ctx, nil
}

// RequireCoach rejects sessions without the coach role. It must run inside
// Require. The check happens server-side before any data is fetched.
func RequireCoach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Role(r.Context()) != RoleCoach {
			httputil.WriteError(w, http.StatusForbidden, "coach role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StaticToken authenticates webhook calls with a shared secret. The bearer
// value must equal the configured token exactly.
func StaticToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				httputil.InternalError(w, "notify token not configured")
				return
			}
			presented := bearerToken(r)
			if presented == "" {
				httputil.Unauthorized(w, "missing authorization")
				return
			}
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				httputil.Unauthorized(w, "invalid token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the bearer token from the Authorization header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// WithIdentity attaches a resolved identity to the context. Handlers read
// it through UserID, Email, and Role.
func WithIdentity(ctx context.Context, userID, email, role string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUserID, userID)
	ctx = context.WithValue(ctx, ctxKeyEmail, email)
	ctx = context.WithValue(ctx, ctxKeyRole, role)
	return ctx
}

// UserID returns the authenticated user id, or "" when anonymous.
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyUserID).(string)
	return v
}

// Email returns the authenticated email, or "".
func Email(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyEmail).(string)
	return v
}

// Role returns the session role claim, or "".
func Role(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRole).(string)
	return v
}

// AccessToken returns the raw session token, or "".
func AccessToken(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyToken).(string)
	return v
}
