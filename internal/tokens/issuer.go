package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Options struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

type Issued struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

type Pair struct {
	Access  Issued
	Refresh Issued
}

type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	now        func() time.Time
}

func NewIssuer(opts Options) (*Issuer, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("tokens: empty signing secret")
	}
	if opts.AccessTTL <= 0 || opts.RefreshTTL <= 0 {
		return nil, errors.New("tokens: token lifetimes must be positive")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Issuer{
		secret:     opts.Secret,
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
		issuer:     opts.Issuer,
		now:        now,
	}, nil
}

// TTL returns the configured lifetime for tokens of type t.
func (i *Issuer) TTL(t Type) time.Duration {
	if t == Refresh {
		return i.refreshTTL
	}
	return i.accessTTL
}

func (i *Issuer) IssueAccessToken(id Identity) (Issued, error) {
	return i.issue(id, Access)
}

func (i *Issuer) IssueRefreshToken(id Identity) (Issued, error) {
	return i.issue(id, Refresh)
}

// IssuePair mints an access and a refresh token for the same identity.
func (i *Issuer) IssuePair(id Identity) (Pair, error) {
	access, err := i.IssueAccessToken(id)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := i.IssueRefreshToken(id)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

func (i *Issuer) issue(id Identity, typ Type) (Issued, error) {
	now := i.now()
	exp := now.Add(i.TTL(typ))
	jti := NewJTI()

	claims := Claims{
		UserID: id.UserID,
		Role:   id.Role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Username,
			Issuer:    i.issuer,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if err := claims.validateShape(); err != nil {
		return Issued{}, err
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Issued{}, fmt.Errorf("sign %s token: %w", typ, err)
	}

	return Issued{Token: signed, JTI: jti, ExpiresAt: exp}, nil
}

// Decode verifies the signature and expiry of raw and checks that it is a
// well-formed token of type want.
func (i *Issuer) Decode(raw string, want Type) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if err := claims.validateShape(); err != nil {
		return nil, err
	}
	if claims.Type != want {
		return nil, ErrWrongTokenType
	}

	return &claims, nil
}
