package tenant

// TokenClaims is the JWT payload for signed tenant tokens.
type TokenClaims struct {
	TenantID string `json:"tenant_id"`
	Name     string `json:"name,omitempty"`
	IssuedAt int64  `json:"iat"`
	Expiry   int64  `json:"exp"`
	JTI      string `json:"jti"`
	Audience string `json:"aud"`
	Issuer   string `json:"iss"`
}

// TokenResponse is returned by the token issuing endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
