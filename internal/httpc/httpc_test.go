package httpc

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPClient_Insecure_AllowsSelfSigned(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	strict := (&Httpc{}).New()
	if _, err := strict.R().Get(srv.URL); err == nil {
		t.Fatalf("expected error without insecure TLS, got nil")
	}

	h := &Httpc{TlsConfig: TLSConfig(true, "1.2", "")}
	resp, err := h.New().R().SetContext(context.Background()).Get(srv.URL)
	if err != nil || resp.StatusCode() != 200 {
		t.Fatalf("expected 200 with insecure, got resp=%v err=%v", resp, err)
	}
}

func TestHTTPClient_TLSConfigAppliedToClient(t *testing.T) {
	c12 := (&Httpc{TlsConfig: TLSConfig(false, "1.2", "1.2")}).New()
	tr, _ := c12.GetClient().Transport.(*http.Transport)
	if tr == nil || tr.TLSClientConfig == nil {
		t.Fatalf("expected TLSClientConfig for tls1.2 mode")
	}
	if tr.TLSClientConfig.MinVersion != tls.VersionTLS12 || tr.TLSClientConfig.MaxVersion != tls.VersionTLS12 {
		t.Fatalf("expected TLS1.2 only, got Min=%v Max=%v", tr.TLSClientConfig.MinVersion, tr.TLSClientConfig.MaxVersion)
	}

	// explicit config without MinVersion defaults to TLS1.3
	c13 := (&Httpc{TlsConfig: &tls.Config{}}).New()
	tr, _ = c13.GetClient().Transport.(*http.Transport)
	if tr == nil || tr.TLSClientConfig == nil || tr.TLSClientConfig.MinVersion != tls.VersionTLS13 {
		t.Fatalf("expected MinVersion TLS1.3 default")
	}
}

func TestTLSConfig_NilWhenUnset(t *testing.T) {
	if cfg := TLSConfig(false, "", ""); cfg != nil {
		t.Fatalf("expected nil config, got %+v", cfg)
	}
	if cfg := TLSConfig(false, "", "1.2"); cfg == nil || cfg.MinVersion != tls.VersionTLS12 {
		t.Fatalf("expected min to follow a legacy max, got %+v", cfg)
	}
}

func TestParseTLSVersion(t *testing.T) {
	tests := map[string]uint16{
		"1.0":    tls.VersionTLS10,
		"tls11":  tls.VersionTLS11,
		" 12 ":   tls.VersionTLS12,
		"TLS1.3": tls.VersionTLS13,
		"ssl3":   0,
		"":       0,
	}
	for in, want := range tests {
		if got := ParseTLSVersion(in); got != want {
			t.Errorf("ParseTLSVersion(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestHTTPClient_BaseURLAndHeaders(t *testing.T) {
	var gotUA, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		w.WriteHeader(204)
	}))
	defer srv.Close()
	if !strings.HasPrefix(srv.URL, "http://") {
		t.Fatalf("expected http server URL, got %s", srv.URL)
	}

	c := (&Httpc{BaseURL: srv.URL, UserAgent: "frontc-test"}).New()
	resp, err := c.R().Get("/api/social-media")
	if err != nil || resp.StatusCode() != 204 {
		t.Fatalf("expected 204, got resp=%v err=%v", resp, err)
	}
	if gotUA != "frontc-test" || gotPath != "/api/social-media" {
		t.Fatalf("unexpected request ua=%q path=%q", gotUA, gotPath)
	}
}

func TestHTTPClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c := (&Httpc{Timeout: 20 * time.Millisecond}).New()
	if _, err := c.R().Get(srv.URL); err == nil {
		t.Fatal("expected timeout error")
	}
}
