package videotoken

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestDevEngineMintsVerifiableToken(t *testing.T) {
	engine := NewDevEngine("test-secret", time.Minute)

	token, err := engine.Mint(context.Background(), "town-1", "player-1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Fatalf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("token should be valid")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type: %T", parsed.Claims)
	}
	if claims["room"] != "town-1" || claims["identity"] != "player-1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestDevEngineRejectsWrongSecret(t *testing.T) {
	engine := NewDevEngine("right-secret", 0)

	token, err := engine.Mint(context.Background(), "town-1", "player-1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	_, err = jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	if err == nil {
		t.Fatal("token must not verify under a different secret")
	}
}
