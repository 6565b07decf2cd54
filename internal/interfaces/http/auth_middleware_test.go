package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/billing-api/internal/application/auth"
	pkgjwt "github.com/jhoicas/billing-api/pkg/jwt"
)

const (
	testJWTSecret    = "test-secret-key-for-unit-tests"
	testClientID     = "erp-sync"
	testClientSecret = "s3creto-largo"
	testIssuer       = "billing-api-test"
	testExpMin       = 60
)

// authUseCase auth habilitada con un único cliente.
func authUseCase(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testClientSecret), bcrypt.MinCost)
	require.NoError(t, err)
	return auth.NewAuthUseCase(
		auth.ClientCredentials{ClientID: testClientID, SecretHash: string(hash)},
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
	)
}

func bearer(t *testing.T, secret string, expMin int) string {
	t.Helper()
	tok, _, err := pkgjwt.Generate(secret, testClientID, testIssuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_DeshabilitadaDejaPasar(t *testing.T) {
	app := buildTestApp(t, nil)
	r := do(t, app, http.MethodGet, "/api/billing-documents", "")

	assert.Equal(t, http.StatusOK, r.resp.StatusCode)
}

func TestAuth_SinHeader_Retorna401(t *testing.T) {
	app := buildTestApp(t, authUseCase(t))
	r := do(t, app, http.MethodGet, "/api/billing-documents", "")

	assert.Equal(t, http.StatusUnauthorized, r.resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", r.object(t)["code"])
}

func TestAuth_FormatoInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(t, authUseCase(t))
	r := do(t, app, http.MethodGet, "/api/billing-documents", "", "Authorization", "Basic abc")

	assert.Equal(t, http.StatusUnauthorized, r.resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", r.object(t)["code"])
}

func TestAuth_TokenExpiradoOSecretIncorrecto_Retorna401(t *testing.T) {
	app := buildTestApp(t, authUseCase(t))

	r := do(t, app, http.MethodGet, "/api/dashboard/stats", "", "Authorization", bearer(t, testJWTSecret, -1))
	assert.Equal(t, http.StatusUnauthorized, r.resp.StatusCode, "token expirado")

	r = do(t, app, http.MethodGet, "/api/dashboard/stats", "", "Authorization", bearer(t, "otro-secret", testExpMin))
	assert.Equal(t, http.StatusUnauthorized, r.resp.StatusCode, "firmado con otro secreto")
}

func TestAuth_TokenValido_Accede(t *testing.T) {
	app := buildTestApp(t, authUseCase(t))
	header := bearer(t, testJWTSecret, testExpMin)

	id := createDocument(t, app, "Authorization", header)
	r := do(t, app, http.MethodGet, "/api/billing-documents/"+id, "", "Authorization", header)

	assert.Equal(t, http.StatusOK, r.resp.StatusCode)
}

func TestAuth_RutasPublicas(t *testing.T) {
	app := buildTestApp(t, authUseCase(t))

	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/", "").resp.StatusCode)
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/health", "").resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/auth/token
// ──────────────────────────────────────────────────────────────────────────────

func TestToken_EmiteYSirveParaAcceder(t *testing.T) {
	app := buildTestApp(t, authUseCase(t))

	r := do(t, app, http.MethodPost, "/api/auth/token",
		`{"client_id":"`+testClientID+`","client_secret":"`+testClientSecret+`"}`)
	require.Equal(t, http.StatusOK, r.resp.StatusCode, "cuerpo: %s", r.raw)
	body := r.object(t)
	assert.Equal(t, "Bearer", body["token_type"])
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)

	r = do(t, app, http.MethodGet, "/api/dashboard/stats", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, r.resp.StatusCode)
}

func TestToken_CredencialesInvalidas(t *testing.T) {
	app := buildTestApp(t, authUseCase(t))

	r := do(t, app, http.MethodPost, "/api/auth/token", `{"client_id":"`+testClientID+`","client_secret":"mala"}`)
	assert.Equal(t, http.StatusUnauthorized, r.resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", r.object(t)["code"])

	r = do(t, app, http.MethodPost, "/api/auth/token", `{"client_id":""}`)
	assert.Equal(t, http.StatusBadRequest, r.resp.StatusCode)
}

func TestToken_AuthDeshabilitada_Retorna401(t *testing.T) {
	app := buildTestApp(t, nil)
	r := do(t, app, http.MethodPost, "/api/auth/token", `{"client_id":"a","client_secret":"b"}`)

	assert.Equal(t, http.StatusUnauthorized, r.resp.StatusCode)
}
