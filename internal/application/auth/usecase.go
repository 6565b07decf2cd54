package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/billing-api/internal/application/dto"
	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// ClientCredentials cliente de API autorizado a pedir tokens. SecretHash es un hash bcrypt.
type ClientCredentials struct {
	ClientID   string
	SecretHash string
}

// AuthUseCase emite tokens bearer para clientes de API configurados.
type AuthUseCase struct {
	client ClientCredentials
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(client ClientCredentials, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{client: client, jwtCfg: jwtCfg}
}

// Enabled indica si la API está protegida (hay secreto JWT configurado).
func (uc *AuthUseCase) Enabled() bool { return uc.jwtCfg.Secret != "" }

// IssueToken verifica client_id/client_secret y genera un JWT.
// Credenciales inválidas, o auth deshabilitada, devuelven domain.ErrUnauthorized.
func (uc *AuthUseCase) IssueToken(in dto.TokenRequest) (*dto.TokenResponse, error) {
	if in.ClientID == "" || in.ClientSecret == "" {
		return nil, domain.NewValidationError("client_id", "client_id y client_secret son requeridos")
	}
	if !uc.Enabled() || uc.client.ClientID == "" || uc.client.SecretHash == "" {
		return nil, domain.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(in.ClientID), []byte(uc.client.ClientID)) != 1 {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.client.SecretHash), []byte(in.ClientSecret)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, expiresAt, err := jwt.Generate(uc.jwtCfg.Secret, in.ClientID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, domain.Internal("firmar token", err)
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// Authenticate valida un token bearer y devuelve el cliente.
func (uc *AuthUseCase) Authenticate(token string) (string, error) {
	clientID, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return "", domain.ErrUnauthorized
	}
	return clientID, nil
}
