package tokens

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Type string

const (
	Access  Type = "access"
	Refresh Type = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
	ErrWrongTokenType = errors.New("wrong token type")
)

// Identity is the principal embedded in every token of a pair.
type Identity struct {
	UserID   uint
	Username string
	Role     string
}

// Claims is the fixed claim set carried by access and refresh tokens.
// Subject holds the username and ID holds the jti.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	Type   Type   `json:"type"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Username: c.Subject, Role: c.Role}
}

func (c *Claims) validateShape() error {
	switch {
	case c.UserID == 0:
		return fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	case c.Role == "":
		return fmt.Errorf("%w: missing role", ErrInvalidToken)
	case c.Subject == "":
		return fmt.Errorf("%w: missing subject", ErrInvalidToken)
	case c.ID == "":
		return fmt.Errorf("%w: missing jti", ErrInvalidToken)
	case c.Type != Access && c.Type != Refresh:
		return fmt.Errorf("%w: unknown token type %q", ErrInvalidToken, c.Type)
	}
	return nil
}

func NewJTI() string { return uuid.NewString() }
