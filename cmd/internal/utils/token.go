package utils

import (
	"errors"

	"github.com/labstack/echo/v4"
)

const tokenDataKey = "token_data"

var ErrNoTokenData = errors.New("no token data in context")

// TokenData is what the authentication middleware resolves a bearer
// credential to.
type TokenData struct {
	UserID string
	Role   string
	Email  string
}

func (t *TokenData) IsAdmin() bool {
	return t.Role == "ADMIN"
}

func SetTokenDataCtx(c echo.Context, data *TokenData) {
	c.Set(tokenDataKey, data)
}

func ParseTokenDataCtx(c echo.Context) (*TokenData, error) {
	data, ok := c.Get(tokenDataKey).(*TokenData)
	if !ok || data == nil {
		return nil, ErrNoTokenData
	}
	return data, nil
}
