package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := Generate("secreto", 7, 2, "mayoreo-api", 5)
	require.NoError(t, err)

	claims, err := Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, int64(2), claims.RoleID)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "mayoreo-api", claims.Issuer)
}

func TestParse_Rechazos(t *testing.T) {
	tok, err := Generate("secreto", 7, 2, "mayoreo-api", 5)
	require.NoError(t, err)

	_, err = Parse("otro", tok)
	assert.Error(t, err, "firma incorrecta")

	expired, err := Generate("secreto", 7, 2, "mayoreo-api", -1)
	require.NoError(t, err)
	_, err = Parse("secreto", expired)
	assert.Error(t, err, "token expirado")

	_, err = Parse("", tok)
	assert.Error(t, err)

	_, err = Generate("", 7, 2, "x", 5)
	assert.Error(t, err)
}
