package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/billing-api/pkg/jwt"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	tok, exp, err := pkgjwt.Generate("secreto", "erp-sync", "billing-api", 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	clientID, err := pkgjwt.Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, "erp-sync", clientID)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, _, err := pkgjwt.Generate("secreto", "erp-sync", "billing-api", 15)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, _, err := pkgjwt.Generate("secreto", "erp-sync", "billing-api", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("secreto", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, _, err := pkgjwt.Generate("", "erp-sync", "billing-api", 15)
	assert.Error(t, err)

	_, err = pkgjwt.Parse("", "x.y.z")
	assert.Error(t, err)
}
