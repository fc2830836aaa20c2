// Package auth issues and verifies the signed session tokens carried in the
// session cookie.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/eventaura/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the standard claims plus the user's id and display name.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Name   string `json:"name"`
}

// Identity is the authenticated principal resolved from a token.
type Identity struct {
	UserID    string
	Name      string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Codec struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewCodec(secret []byte, validity time.Duration) *Codec {
	return &Codec{secret: secret, validity: validity, now: time.Now}
}

// WithClock returns a copy of c reading the current time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// Issue signs an HS256 token for the user valid for the codec's validity period.
func (c *Codec) Issue(userID, name string) (string, Identity, error) {
	issued := c.now()
	expires := issued.Add(c.validity)
	id := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UserID: userID,
		Name:   name,
	})

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", Identity{}, fmt.Errorf("sign token: %w", err)
	}

	return tokenString, Identity{
		UserID:    userID,
		Name:      name,
		TokenID:   id,
		IssuedAt:  issued.Truncate(time.Second),
		ExpiresAt: expires.Truncate(time.Second),
	}, nil
}

// Verify checks the signature and expiry of tokenString. A token is valid
// strictly before its expiry instant; afterwards common.ErrTokenExpired is
// returned. Any other failure yields common.ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, common.ErrTokenExpired
		}
		return Identity{}, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return Identity{}, common.ErrInvalidToken
	}

	id := Identity{
		UserID:    claims.UserID,
		Name:      claims.Name,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	return id, nil
}
