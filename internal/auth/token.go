package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles carried in the token's role claim. Every token has exactly one,
// regardless of whether the principal is a database user or an
// environment-credential admin.
const (
	RoleUser       = "user"
	RoleEmployee   = "employee"
	RoleStockAdmin = "stock_admin"
	RoleMainAdmin  = "main_admin"
)

// EnvSubjectPrefix marks tokens issued to environment-credential admins,
// which have no backing user document.
const EnvSubjectPrefix = "env:"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrMissingRole  = errors.New("missing role claim")
)

// Claims are the custom JWT claims shared by every token this service signs.
type Claims struct {
	jwt.RegisteredClaims
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
}

// UserID parses the subject as a Mongo object id. It fails for
// environment-credential admin tokens.
func (c *Claims) UserID() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Subject)
}

// Service signs and validates HS256 tokens with a single shared secret.
type Service struct {
	secret    []byte
	accessTTL time.Duration
}

func NewService(secret string, accessTTL time.Duration) *Service {
	return &Service{secret: []byte(secret), accessTTL: accessTTL}
}

// Issue signs a token for the given subject, role and email.
func (s *Service) Issue(subject, role, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
		Role:  role,
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// IssueUser signs a storefront user token.
func (s *Service) IssueUser(userID primitive.ObjectID, email string) (string, error) {
	return s.Issue(userID.Hex(), RoleUser, email)
}

// IssueEnvAdmin signs a token for an environment-credential admin role.
func (s *Service) IssueEnvAdmin(role string) (string, error) {
	return s.Issue(EnvSubjectPrefix+role, role, "")
}

// Parse validates the signature and expiry and returns the claims.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role == "" {
		return nil, ErrMissingRole
	}
	return claims, nil
}
