package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/lukavran/winelabel/internal/model"
	"github.com/lukavran/winelabel/internal/repository"
)

// Cookie names used by the session layer. The access cookie carries a signed
// JWT, the refresh cookie the raw refresh token.
const (
	AccessCookie  = "wl_access"
	RefreshCookie = "wl_refresh"
)

// ErrNoSession is returned whenever no principal can be resolved from a
// request: missing credentials, forged or expired tokens, revoked refresh
// tokens and unreachable backends all collapse into this one error so that
// callers cannot tell the cases apart.
var ErrNoSession = errors.New("no authenticated session")

// Session is the outcome of resolving a request's credentials. Rotated is
// non-nil when the access token was re-minted from the refresh token during
// resolution; whoever handles the response must then set the fresh cookie.
type Session struct {
	UserID  uint64
	Rotated *AccessToken
}

// Resolver is the single authentication strategy of the service. Handlers
// and middleware depend on this interface only, so the backing credential
// store can be swapped without touching either.
type Resolver interface {
	// SessionFromRequest resolves a session (principal id plus rotation
	// state) from the request's Authorization header or cookies without
	// touching the users table.
	SessionFromRequest(ctx context.Context, r *http.Request) (*Session, error)
	// CurrentUser resolves the session and loads the full user row.
	CurrentUser(ctx context.Context, r *http.Request) (*model.User, error)
	// SignOut revokes the refresh token backing a session.
	SignOut(ctx context.Context, refreshRaw string) error
}

// SessionResolver implements Resolver on top of HS256 JWTs and the local
// refresh token table.
type SessionResolver struct {
	secret    string
	accessTTL time.Duration
	users     *repository.UserRepo
	tokens    *repository.TokenRepo
}

// NewSessionResolver wires the resolver with its dependencies. Panics on nil
// repositories since the service cannot run without them.
func NewSessionResolver(secret string, accessTTL time.Duration, users *repository.UserRepo, tokens *repository.TokenRepo) *SessionResolver {
	if users == nil || tokens == nil {
		panic("nil repository passed to NewSessionResolver")
	}
	return &SessionResolver{secret: secret, accessTTL: accessTTL, users: users, tokens: tokens}
}

// SessionFromRequest tries, in order: the Authorization bearer token, the
// access cookie, and finally the refresh cookie. A valid refresh token mints
// a fresh access token and reports it via Session.Rotated so the caller can
// propagate the rotated cookie onto the response.
func (s *SessionResolver) SessionFromRequest(ctx context.Context, r *http.Request) (*Session, error) {
	if raw := bearerToken(r); raw != "" {
		uid, err := ParseAccessToken(s.secret, raw)
		if err != nil {
			return nil, ErrNoSession
		}
		return &Session{UserID: uid}, nil
	}

	if c, err := r.Cookie(AccessCookie); err == nil && c.Value != "" {
		if uid, err := ParseAccessToken(s.secret, c.Value); err == nil {
			return &Session{UserID: uid}, nil
		}
		// Expired or malformed access cookie: fall through to the refresh
		// cookie instead of failing outright.
	}

	c, err := r.Cookie(RefreshCookie)
	if err != nil || c.Value == "" {
		return nil, ErrNoSession
	}
	uid, err := s.tokens.ValidateRefresh(ctx, HashRefreshRaw(c.Value))
	if err != nil {
		return nil, ErrNoSession
	}
	access, err := NewAccessToken(s.secret, uid, s.accessTTL)
	if err != nil {
		return nil, ErrNoSession
	}
	return &Session{UserID: uid, Rotated: &access}, nil
}

// CurrentUser resolves the session and loads the user row behind it. A
// session whose user has disappeared counts as no session.
func (s *SessionResolver) CurrentUser(ctx context.Context, r *http.Request) (*model.User, error) {
	sess, err := s.SessionFromRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, ErrNoSession
	}
	return u, nil
}

// SignOut revokes the refresh token. Unknown tokens are not an error: the
// session is gone either way.
func (s *SessionResolver) SignOut(ctx context.Context, refreshRaw string) error {
	err := s.tokens.RevokeByHash(ctx, HashRefreshRaw(refreshRaw))
	if errors.Is(err, repository.ErrTokenNotFound) {
		return nil
	}
	return err
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}
