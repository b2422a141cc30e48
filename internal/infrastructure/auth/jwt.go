package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/unical-dimes/professors/internal/shared/biztime"
	sharedConfig "github.com/unical-dimes/professors/internal/shared/config"
	"github.com/unical-dimes/professors/internal/shared/errors"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the payload of both token classes.
type Claims struct {
	Roles     []string  `json:"roles"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uint, error) {
	if c.Subject == "" {
		return 0, fmt.Errorf("token missing subject claim")
	}
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid subject claim %q", c.Subject)
	}
	return uint(id), nil
}

// TokenDomainConfig configures one token class.
type TokenDomainConfig struct {
	Secret    string
	Algorithm string
	TTL       time.Duration
}

type TokenCodecConfig struct {
	Access   TokenDomainConfig
	Refresh  TokenDomainConfig
	Issuer   string
	Audience string
}

type tokenDomain struct {
	kind   TokenType
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// TokenCodec signs and verifies access and refresh tokens. Each class has
// its own secret, so a token of one class never verifies as the other.
type TokenCodec struct {
	access   tokenDomain
	refresh  tokenDomain
	issuer   string
	audience string
	clock    biztime.Clock
}

func NewTokenCodec(cfg TokenCodecConfig) (*TokenCodec, error) {
	access, err := newTokenDomain(TokenTypeAccess, cfg.Access)
	if err != nil {
		return nil, err
	}
	refresh, err := newTokenDomain(TokenTypeRefresh, cfg.Refresh)
	if err != nil {
		return nil, err
	}
	if cfg.Access.Secret == cfg.Refresh.Secret {
		return nil, fmt.Errorf("access and refresh secrets must differ")
	}
	return &TokenCodec{
		access:   access,
		refresh:  refresh,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		clock:    biztime.System,
	}, nil
}

// NewTokenCodecFromConfig builds a codec from the auth.jwt config section.
func NewTokenCodecFromConfig(cfg sharedConfig.JWTConfig) (*TokenCodec, error) {
	return NewTokenCodec(TokenCodecConfig{
		Access:   TokenDomainConfig{Secret: cfg.AccessSecret, Algorithm: cfg.Algorithm, TTL: cfg.AccessTTL()},
		Refresh:  TokenDomainConfig{Secret: cfg.RefreshSecret, Algorithm: cfg.RefreshAlg(), TTL: cfg.RefreshTTL()},
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
	})
}

func newTokenDomain(kind TokenType, cfg TokenDomainConfig) (tokenDomain, error) {
	if cfg.Secret == "" {
		return tokenDomain{}, fmt.Errorf("%s token secret is required", kind)
	}
	method, ok := jwt.GetSigningMethod(strings.ToUpper(cfg.Algorithm)).(*jwt.SigningMethodHMAC)
	if !ok {
		return tokenDomain{}, fmt.Errorf("unsupported %s token algorithm %q", kind, cfg.Algorithm)
	}
	if cfg.TTL <= 0 {
		return tokenDomain{}, fmt.Errorf("%s token TTL must be positive", kind)
	}
	return tokenDomain{kind: kind, secret: []byte(cfg.Secret), method: method, ttl: cfg.TTL}, nil
}

// WithClock replaces the time source; used by tests.
func (c *TokenCodec) WithClock(clock biztime.Clock) *TokenCodec {
	cp := *c
	cp.clock = clock
	return &cp
}

func (c *TokenCodec) AccessTTL() time.Duration {
	return c.access.ttl
}

func (c *TokenCodec) RefreshTTL() time.Duration {
	return c.refresh.ttl
}

// IssueAccess signs an access token; a non-positive ttl uses the configured one.
func (c *TokenCodec) IssueAccess(userID uint, roles []string, ttl time.Duration) (string, error) {
	return c.issue(c.access, userID, roles, ttl)
}

// IssueRefresh signs a refresh token; a non-positive ttl uses the configured one.
func (c *TokenCodec) IssueRefresh(userID uint, roles []string, ttl time.Duration) (string, error) {
	return c.issue(c.refresh, userID, roles, ttl)
}

func (c *TokenCodec) DecodeAccess(token string) (*Claims, error) {
	return c.decode(c.access, token)
}

func (c *TokenCodec) DecodeRefresh(token string) (*Claims, error) {
	return c.decode(c.refresh, token)
}

func (c *TokenCodec) issue(d tokenDomain, userID uint, roles []string, ttl time.Duration) (string, error) {
	if userID == 0 {
		return "", fmt.Errorf("user ID is required")
	}
	if ttl <= 0 {
		ttl = d.ttl
	}
	if roles == nil {
		roles = []string{}
	}
	now := c.clock.Now()
	claims := &Claims{
		Roles:     roles,
		TokenType: d.kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			// jti keeps two tokens issued in the same second distinct.
			ID: uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(d.method, claims).SignedString(d.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", d.kind, err)
	}
	return signed, nil
}

func (c *TokenCodec) decode(d tokenDomain, tokenString string) (*Claims, error) {
	invalid := errors.NewTokenInvalidError(fmt.Sprintf("Invalid %s token", d.kind))
	if tokenString == "" {
		return nil, invalid
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return d.secret, nil
		},
		jwt.WithValidMethods([]string{d.method.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil || !token.Valid {
		return nil, invalid
	}
	if claims.TokenType != d.kind {
		return nil, invalid
	}
	return claims, nil
}
