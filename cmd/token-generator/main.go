// Command token-generator signs a development token for a user so the
// stream endpoints can be exercised by hand.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"notify-srv/pkg/jwt"
	"notify-srv/pkg/scope"
)

func main() {
	var (
		userID   = flag.Int64("user", 1, "user id")
		wsID     = flag.Int64("ws", 1, "workspace id")
		fullname = flag.String("name", "Test User", "full name")
		email    = flag.String("email", "test@example.com", "email")
		ttl      = flag.Duration("ttl", 24*time.Hour, "token lifetime")
		keyPath  = flag.String("private-key", "", "ES256 private key PEM; HS256 with JWT_SECRET_KEY when empty")
		issuer   = flag.String("iss", jwt.DefaultIssuer, "issuer")
		audience = flag.String("aud", jwt.DefaultAudience, "audience")
		addr     = flag.String("addr", "localhost:6687", "server address for the printed examples")
	)
	flag.Parse()

	signer, err := newSigner(*keyPath, *issuer, *audience)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	token, err := signer.GenerateToken(scope.Principal{
		UserID:   *userID,
		WsID:     *wsID,
		Fullname: *fullname,
		Email:    *email,
	}, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Println("\nServer-Sent Events:")
	fmt.Printf("curl -N -H 'Authorization: Bearer %s' http://%s/events\n", token, *addr)
	fmt.Println("\nWebSocket:")
	fmt.Printf("ws://%s/ws?access_token=%s\n", *addr, token)
}

func newSigner(keyPath, issuer, audience string) (*jwt.Signer, error) {
	if keyPath == "" {
		secret := os.Getenv("JWT_SECRET_KEY")
		if len(secret) < jwt.MinSecretKeyLen {
			return nil, fmt.Errorf("JWT_SECRET_KEY must be at least %d bytes", jwt.MinSecretKeyLen)
		}
		return jwt.NewHMACSigner(secret, issuer, audience), nil
	}

	pem, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	key, err := gojwt.ParseECPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return jwt.NewES256Signer(key, issuer, audience), nil
}
