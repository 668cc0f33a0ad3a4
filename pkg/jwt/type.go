package jwt

import "github.com/golang-jwt/jwt/v5"

const (
	// MinSecretKeyLen is the shortest accepted HMAC secret.
	MinSecretKeyLen = 32

	DefaultIssuer   = "chat_server"
	DefaultAudience = "chat_client"
)

// Config holds verification settings. Exactly one of SecretKey (HS256) or
// PublicKeyPEM (ES256) selects the algorithm; PublicKeyPEM wins when both
// are set.
type Config struct {
	SecretKey    string
	PublicKeyPEM []byte
	Issuer       string
	Audience     string
}

// Claims is the token layout issued by the chat server: user fields at the
// top level next to the registered claims.
type Claims struct {
	UserID   int64  `json:"id"`
	WsID     int64  `json:"ws_id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}
