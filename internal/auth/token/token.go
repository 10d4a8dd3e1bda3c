package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/capitalsapp/capitals/internal/common/clock"
)

var (
	ErrInvalidToken  = errors.New("token is not valid")
	ErrMissingClaims = errors.New("missing required token claims")
)

// Claims is the decoded session payload attached to authenticated requests.
type Claims struct {
	UserID   int64
	Username string
}

// Codec signs and verifies session tokens with a shared secret. Expired and
// forged tokens fail verification the same way.
type Codec interface {
	Issue(claims Claims, ttl time.Duration) (string, error)
	Verify(token string) (Claims, error)
}

type HS256Codec struct {
	secret []byte
	clock  clock.Clock
}

func NewHS256Codec(secret string, clk clock.Clock) *HS256Codec {
	return &HS256Codec{secret: []byte(secret), clock: clk}
}

func (c *HS256Codec) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := c.clock.Now()
	mapClaims := jwt.MapClaims{
		"sub": strconv.FormatInt(claims.UserID, 10),
		"usr": claims.Username,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return t.SignedString(c.secret)
}

func (c *HS256Codec) Verify(tokenString string) (Claims, error) {
	parsed, err := jwt.Parse(
		tokenString,
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return c.secret, nil
		},
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil || !parsed.Valid {
		if err == nil {
			err = ErrInvalidToken
		}
		return Claims{}, err
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	username, _ := mapClaims["usr"].(string)
	if sub == "" || username == "" {
		return Claims{}, ErrMissingClaims
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return Claims{}, ErrMissingClaims
	}

	return Claims{UserID: userID, Username: username}, nil
}
