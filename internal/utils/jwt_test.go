package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewAccessToken(t *testing.T) {
    tok, err := NewAccessToken("s3cret", "Jeremy_1", RoleCustomer, 15)
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 5*time.Second)

    parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) { return []byte("s3cret"), nil })
    require.NoError(t, err)
    claims := parsed.Claims.(jwt.MapClaims)
    assert.Equal(t, "Jeremy_1", claims["sub"])
    assert.Equal(t, RoleCustomer, claims["role"])
}

func TestNewAccessToken_RequiresSecretAndSubject(t *testing.T) {
    _, err := NewAccessToken("", "Jeremy_1", RoleCustomer, 15)
    assert.Error(t, err)
    _, err = NewAccessToken("s3cret", "", RoleOwner, 15)
    assert.Error(t, err)
}
