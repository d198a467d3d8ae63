package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/propwise/marketplace-service/internal/model"
)

// Parser validates HS256 access tokens issued by the auth service and
// extracts the caller identity. Token issuance lives elsewhere.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

type accessClaims struct {
	UserID string   `json:"user_id"`
	OrgID  string   `json:"org_id"`
	Role   string   `json:"role"`
	Tiers  []string `json:"tiers"`
	jwt.RegisteredClaims
}

func (p *Parser) Parse(tokenString string) (model.Principal, error) {
	var claims accessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return model.Principal{}, err
	}
	if !token.Valid {
		return model.Principal{}, fmt.Errorf("invalid token")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return model.Principal{}, fmt.Errorf("invalid user_id claim: %w", err)
	}
	orgID, err := uuid.Parse(claims.OrgID)
	if err != nil {
		return model.Principal{}, fmt.Errorf("invalid org_id claim: %w", err)
	}
	if claims.Role == "" {
		return model.Principal{}, fmt.Errorf("missing role claim")
	}

	return model.Principal{
		UserID: userID,
		OrgID:  orgID,
		Role:   model.Role(claims.Role),
		Tiers:  claims.Tiers,
	}, nil
}
