package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestConfig_Basic(t *testing.T) {
	c := &Config{Type: " Basic ", Config: map[string]interface{}{"username": "admin", "password": "pw"}}
	if !c.Enabled() {
		t.Fatal("expected enabled")
	}
	h, v, err := c.Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:pw"))
	if h != "Authorization" || v != want {
		t.Fatalf("got %s: %s", h, v)
	}
}

func TestConfig_BasicMissingPassword(t *testing.T) {
	c := &Config{Type: "basic", Config: map[string]interface{}{"username": "admin"}}
	if _, _, err := c.Acquire(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestConfig_BearerCustomHeader(t *testing.T) {
	c := &Config{Type: "bearer", Header: "X-Api-Token", Config: map[string]interface{}{"token": "t0k"}}
	h, v, err := c.Acquire(context.Background())
	if err != nil || h != "X-Api-Token" || v != "Bearer t0k" {
		t.Fatalf("got %q %q %v", h, v, err)
	}
}

func TestConfig_Unsupported(t *testing.T) {
	c := &Config{Type: "kerberos"}
	_, _, err := c.Acquire(context.Background())
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	var nilCfg *Config
	if nilCfg.Enabled() || (&Config{}).Enabled() {
		t.Fatal("empty config must be disabled")
	}
}

func TestJWTConfig_IssueVerifiable(t *testing.T) {
	c := JWTConfig{Secret: "s3cret", Subject: "frontc", TTLSeconds: 60}
	tokStr, err := c.Issue(time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tok, err := jwt.Parse(tokStr, func(t *jwt.Token) (interface{}, error) { return []byte("s3cret"), nil })
	if err != nil || !tok.Valid {
		t.Fatalf("token not valid: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["sub"] != "frontc" {
		t.Fatalf("unexpected claims: %v", claims)
	}

	if _, err := (JWTConfig{}).Issue(time.Now()); err == nil {
		t.Fatal("expected error without secret")
	}
}

func TestConfig_JWTFromMap(t *testing.T) {
	c := &Config{Type: "jwt", Config: map[string]interface{}{"secret": "abc", "ttl_seconds": 30}}
	_, v, err := c.Acquire(context.Background())
	if err != nil || !strings.HasPrefix(v, "Bearer ") {
		t.Fatalf("got %q %v", v, err)
	}
}

func TestClientCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("grant_type") != "client_credentials" || r.Form.Get("client_id") != "cid" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	c := &Config{Type: "oauth2_client_credentials", Config: map[string]interface{}{
		"client_id":     "cid",
		"client_secret": "csecret",
		"token_url":     srv.URL,
		"scopes":        []interface{}{"form:write"},
	}}
	_, v, err := c.Acquire(context.Background())
	if err != nil || v != "Bearer tok-123" {
		t.Fatalf("got %q %v", v, err)
	}
}

func TestClientCredentials_Validation(t *testing.T) {
	if _, err := (ClientCredentialsConfig{ClientID: "a", ClientSecret: "b"}).Acquire(context.Background()); err == nil {
		t.Fatal("expected token_url error")
	}
	if _, err := (ClientCredentialsConfig{TokenURL: "http://x"}).Acquire(context.Background()); err == nil {
		t.Fatal("expected client id error")
	}
}
