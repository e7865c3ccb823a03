// Package service orchestrates the domain operations behind the HTTP
// surface: credential handling, template management, document generation,
// and the audit trail.
package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docforge/docforge/internal/config"
	"github.com/docforge/docforge/internal/domain"
	"github.com/docforge/docforge/internal/domain/tenant"
	"github.com/docforge/docforge/internal/port/database"
)

const (
	tokenAudience = "docforge"
	tokenIssuer   = "docforge-core"
)

// AuthService validates credentials, mints signed tokens, and manages
// per-tenant API keys.
type AuthService struct {
	store  database.Store
	cfg    *config.Auth
	secret []byte
}

// NewAuthService creates a new authentication service.
func NewAuthService(store database.Store, cfg *config.Auth) *AuthService {
	return &AuthService{
		store:  store,
		cfg:    cfg,
		secret: []byte(cfg.JWTSecret),
	}
}

// IssueToken mints a signed access token for an enabled tenant.
func (s *AuthService) IssueToken(ctx context.Context, tenantID string) (*tenant.TokenResponse, error) {
	t, err := s.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	if !t.Enabled {
		return nil, fmt.Errorf("tenant disabled: %w", domain.ErrUnauthenticated)
	}

	token, err := s.signJWT(t)
	if err != nil {
		return nil, fmt.Errorf("sign jwt: %w", err)
	}
	return &tenant.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.cfg.AccessTokenExpiry.Seconds()),
	}, nil
}

// ValidateToken verifies a signed token and returns the caller identity.
// Token identities carry nil scopes (unrestricted within the tenant).
func (s *AuthService) ValidateToken(tokenStr string) (*tenant.Identity, error) {
	claims, err := s.verifyJWT(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	return &tenant.Identity{
		TenantID:    claims.TenantID,
		DisplayName: claims.Name,
		IssuedAt:    time.Unix(claims.IssuedAt, 0),
		ExpiresAt:   time.Unix(claims.Expiry, 0),
	}, nil
}

// ValidateAPIKey looks an API key up by its SHA-256 hash and checks
// expiry, tenant binding, and tenant status. The residual hash comparison
// is constant-time; the lookup itself is by exact hash, so timing reveals
// nothing about stored secrets.
func (s *AuthService) ValidateAPIKey(ctx context.Context, rawKey, tenantID string) (*tenant.Identity, error) {
	keyHash := hashSHA256(rawKey)
	apiKey, err := s.store.GetAPIKeyByHash(ctx, keyHash)
	if err != nil {
		return nil, fmt.Errorf("invalid api key: %w", domain.ErrUnauthenticated)
	}

	if subtle.ConstantTimeCompare([]byte(apiKey.KeyHash), []byte(keyHash)) != 1 {
		return nil, fmt.Errorf("invalid api key: %w", domain.ErrUnauthenticated)
	}
	if !apiKey.ExpiresAt.IsZero() && time.Now().After(apiKey.ExpiresAt) {
		return nil, fmt.Errorf("api key expired: %w", domain.ErrUnauthenticated)
	}
	if tenantID == "" || apiKey.TenantID != tenantID {
		return nil, fmt.Errorf("tenant mismatch: %w", domain.ErrUnauthenticated)
	}

	t, err := s.store.GetTenant(ctx, apiKey.TenantID)
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	if !t.Enabled {
		return nil, fmt.Errorf("tenant disabled: %w", domain.ErrUnauthenticated)
	}

	// Keys created without scopes are unrestricted; nil scopes signal that
	// to Identity.HasScope.
	scopes := apiKey.Scopes
	if len(scopes) == 0 {
		scopes = nil
	}
	return &tenant.Identity{
		TenantID:    apiKey.TenantID,
		DisplayName: apiKey.Name,
		Scopes:      scopes,
		IssuedAt:    apiKey.CreatedAt,
		ExpiresAt:   apiKey.ExpiresAt,
	}, nil
}

// CreateAPIKey generates a new API key for a tenant. The plaintext key is
// returned exactly once; only its hash is stored.
func (s *AuthService) CreateAPIKey(ctx context.Context, tenantID string, req tenant.CreateAPIKeyRequest) (*tenant.CreateAPIKeyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	rawKey, err := generateRandomToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	plainKey := tenant.KeyPrefix + rawKey

	var expiresAt time.Time
	if req.ExpiresIn > 0 {
		expiresAt = time.Now().Add(time.Duration(req.ExpiresIn) * time.Second)
	}

	key := &tenant.APIKey{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      req.Name,
		Prefix:    plainKey[:12], // "dfk_" + 8 chars
		KeyHash:   hashSHA256(plainKey),
		ExpiresAt: expiresAt,
		Scopes:    req.Scopes,
	}

	if err := s.store.CreateAPIKey(ctx, key); err != nil {
		return nil, fmt.Errorf("create api key: %w", err)
	}

	return &tenant.CreateAPIKeyResponse{
		APIKey:   *key,
		PlainKey: plainKey,
	}, nil
}

// ImportAPIKey registers an externally provisioned key secret for a
// tenant. Only the hash is stored, same as generated keys.
func (s *AuthService) ImportAPIKey(ctx context.Context, tenantID, name, plainKey string, scopes []string) (*tenant.APIKey, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !strings.HasPrefix(plainKey, tenant.KeyPrefix) || len(plainKey) < 20 {
		return nil, fmt.Errorf("%w: key must start with %q and carry at least 16 secret chars", domain.ErrValidation, tenant.KeyPrefix)
	}
	if err := tenant.ValidateScopes(scopes); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	key := &tenant.APIKey{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Name:     name,
		Prefix:   plainKey[:12],
		KeyHash:  hashSHA256(plainKey),
		Scopes:   scopes,
	}
	if err := s.store.CreateAPIKey(ctx, key); err != nil {
		return nil, fmt.Errorf("import api key: %w", err)
	}
	return key, nil
}

// ListAPIKeys returns all API keys for a tenant.
func (s *AuthService) ListAPIKeys(ctx context.Context, tenantID string) ([]tenant.APIKey, error) {
	return s.store.ListAPIKeysByTenant(ctx, tenantID)
}

// DeleteAPIKey removes one of the tenant's API keys.
func (s *AuthService) DeleteAPIKey(ctx context.Context, tenantID, id string) error {
	return s.store.DeleteAPIKey(ctx, tenantID, id)
}

// --- JWT implementation (HS256 with stdlib) ---

// jwtHeader is the fixed base64url-encoded header for HS256.
var jwtHeader = base64URLEncode([]byte(`{"alg":"HS256","typ":"JWT"}`))

func (s *AuthService) signJWT(t *tenant.Tenant) (string, error) {
	now := time.Now()
	claims := tenant.TokenClaims{
		TenantID: t.ID,
		Name:     t.Name,
		IssuedAt: now.Unix(),
		Expiry:   now.Add(s.cfg.AccessTokenExpiry).Unix(),
		JTI:      uuid.NewString(),
		Audience: tokenAudience,
		Issuer:   tokenIssuer,
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	payloadB64 := base64URLEncode(payload)
	signingInput := jwtHeader + "." + payloadB64

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signingInput))
	sig := base64URLEncode(mac.Sum(nil))

	return signingInput + "." + sig, nil
}

func (s *AuthService) verifyJWT(tokenStr string) (*tenant.TokenClaims, error) {
	parts := strings.SplitN(tokenStr, ".", 3)
	if len(parts) != 3 {
		return nil, errors.New("malformed token")
	}

	signingInput := parts[0] + "." + parts[1]
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signingInput))
	expectedSig := base64URLEncode(mac.Sum(nil))

	if !hmac.Equal([]byte(parts[2]), []byte(expectedSig)) {
		return nil, errors.New("invalid signature")
	}

	payload, err := base64URLDecode(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	var claims tenant.TokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("unmarshal claims: %w", err)
	}

	if time.Now().Unix() > claims.Expiry {
		return nil, errors.New("token expired")
	}
	if claims.Audience != tokenAudience {
		return nil, errors.New("invalid token audience")
	}
	if claims.Issuer != tokenIssuer {
		return nil, errors.New("invalid token issuer")
	}
	if claims.TenantID == "" {
		return nil, errors.New("token missing tenant")
	}

	return &claims, nil
}

// --- Helpers ---

func base64URLEncode(data []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(data), "=")
}

func base64URLDecode(s string) ([]byte, error) {
	// Add padding back
	switch len(s) % 4 {
	case 2:
		s += "=="
	case 3:
		s += "="
	}
	return base64.URLEncoding.DecodeString(s)
}

func hashSHA256(data string) string {
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:])
}

func generateRandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
