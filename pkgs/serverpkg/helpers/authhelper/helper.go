package authhelper

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

////////////////////////////////////////////////////////////////////////////////

var (
	ErrNoToken      = errors.New("no access token")
	ErrInvalidToken = errors.New("invalid access token")
)

type Config struct {
	Secret     string        `yaml:"secret" env:"SECRET"`
	Issuer     string        `yaml:"issuer" env:"ISSUER"`
	CookieName string        `yaml:"cookie_name" env:"COOKIE_NAME"`
	TTL        time.Duration `yaml:"ttl" env:"TTL"`
}

// claims carries the caller pid in the subject. The pid claim is accepted
// for tokens minted by older account servers.
type claims struct {
	jwt.RegisteredClaims
	Pid uint64 `json:"pid,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////

// Helper verifies HS256 access tokens and extracts the caller pid.
type Helper struct {
	secret     []byte
	issuer     string
	cookieName string
	ttl        time.Duration
	now        func() time.Time
}

func New(cfg Config) (*Helper, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("auth secret is required")
	}
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "access_token"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Helper{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		cookieName: cookieName,
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

////////////////////////////////////////////////////////////////////////////////

// Authenticate returns the pid of the caller that sent r.
func (h *Helper) Authenticate(r *http.Request) (uint64, error) {
	raw := tokenFromRequest(r, h.cookieName)
	if raw == "" {
		return 0, ErrNoToken
	}
	return h.Verify(raw)
}

func (h *Helper) Verify(raw string) (uint64, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(h.now),
		jwt.WithExpirationRequired(),
	}
	if h.issuer != "" {
		opts = append(opts, jwt.WithIssuer(h.issuer))
	}

	parsed := &claims{}
	_, err := jwt.ParseWithClaims(raw, parsed, func(*jwt.Token) (any, error) {
		return h.secret, nil
	}, opts...)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if parsed.Subject != "" {
		pid, err := strconv.ParseInt(parsed.Subject, 10, 64)
		if err != nil || pid <= 0 {
			return 0, fmt.Errorf("%w: subject is not a pid", ErrInvalidToken)
		}
		return uint64(pid), nil
	}
	if parsed.Pid > math.MaxInt64 {
		return 0, fmt.Errorf("%w: pid out of range", ErrInvalidToken)
	}
	if parsed.Pid != 0 {
		return parsed.Pid, nil
	}
	return 0, fmt.Errorf("%w: no pid", ErrInvalidToken)
}

// IssueToken mints a token for pid, valid for the configured TTL.
func (h *Helper) IssueToken(pid uint64) (string, error) {
	now := h.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(pid, 10),
			Issuer:    h.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.ttl)),
		},
	})
	return token.SignedString(h.secret)
}

////////////////////////////////////////////////////////////////////////////////

func tokenFromRequest(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}
