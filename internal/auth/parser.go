package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"complaint-service/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload the identity service signs into access tokens. The
// admin_role claim is only present for admin principals.
type Claims struct {
	UserID    uuid.UUID       `json:"user_id"`
	Role      model.Role      `json:"role"`
	AdminRole model.AdminRole `json:"admin_role,omitempty"`
	Hostel    string          `json:"hostel,omitempty"`
	jwt.RegisteredClaims
}

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

// Parse verifies the signature and expiry of an access token. This service
// never issues tokens, it only verifies them.
func (p *Parser) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	switch claims.Role {
	case model.RoleResident, model.RoleWorker, model.RoleAdmin:
	default:
		return nil, ErrInvalidToken
	}

	return claims, nil
}
