package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inamate/inamate/editor-go/internal/typeid"
)

const tokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type Service struct {
	jwtSecret []byte
	now       func() time.Time
}

func NewService(jwtSecret string) *Service {
	return &Service{
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

// Identity is the user a token was issued to.
type Identity struct {
	UserID      string `json:"id"`
	DisplayName string `json:"displayName"`
}

type TokenResult struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// IssueGuest creates a fresh user ID for displayName and signs a token for it.
func (s *Service) IssueGuest(displayName string) (*TokenResult, error) {
	id := Identity{UserID: typeid.NewUserID(), DisplayName: displayName}
	token, err := s.IssueToken(id)
	if err != nil {
		return nil, err
	}
	return &TokenResult{Token: token, User: id}, nil
}

func (s *Service) IssueToken(id Identity) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  id.UserID,
		"name": id.DisplayName,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ParseToken validates tokenString and returns its identity.
func (s *Service) ParseToken(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return Identity{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	name, _ := claims["name"].(string)

	return Identity{UserID: userID, DisplayName: name}, nil
}

// ValidateToken returns the user ID of a valid token.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	id, err := s.ParseToken(tokenString)
	if err != nil {
		return "", err
	}
	return id.UserID, nil
}
