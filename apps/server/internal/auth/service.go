package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/FCamaggi/aLittleWordy/wordy"
)

const (
	defaultTokenTTL = 24 * time.Hour
	issuer          = "wordy"
)

var ErrInvalidToken = errors.New("invalid seat token")

// Service issues and resolves seat tokens. A seat token binds its bearer to
// one named slot of one room.
type Service interface {
	Issue(room, name string, seat wordy.Seat) (string, error)
	Resolve(token string) (SeatClaims, error)
}

// SeatClaims are the JWT claims of a seat token.
type SeatClaims struct {
	Room string     `json:"room"`
	Name string     `json:"name"`
	Seat wordy.Seat `json:"seat"`
	jwt.RegisteredClaims
}

// SeatIssuer signs seat tokens with HS256.
type SeatIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSeatIssuer(secret []byte, ttl time.Duration) (*SeatIssuer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("empty seat token secret")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &SeatIssuer{secret: secret, ttl: ttl, now: time.Now}, nil
}

func (s *SeatIssuer) Issue(room, name string, seat wordy.Seat) (string, error) {
	room = wordy.NormalizeCode(room)
	if room == "" || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("seat token needs room and name")
	}
	now := s.now()
	claims := SeatClaims{
		Room: room,
		Name: name,
		Seat: seat,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   room + "/" + name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *SeatIssuer) Resolve(token string) (SeatClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return SeatClaims{}, ErrInvalidToken
	}
	var claims SeatClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return SeatClaims{}, ErrInvalidToken
	}
	if claims.Room == "" || claims.Name == "" || (claims.Seat != 0 && claims.Seat != 1) {
		return SeatClaims{}, ErrInvalidToken
	}
	return claims, nil
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	const prefix = "bearer "
	if len(raw) < len(prefix) || !strings.EqualFold(raw[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(raw[len(prefix):])
}
