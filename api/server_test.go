package api

import (
	"net/http"
	"testing"

	"github.com/akvaproffi/storefront/pkg/config"
)

func TestNewServerUsesConfiguredPort(t *testing.T) {
	t.Setenv("PORT", "")
	cfg := &config.Config{App: config.AppConfig{Port: "9090"}}

	srv := NewServer(cfg, http.NotFoundHandler())
	if srv.Addr != ":9090" {
		t.Fatalf("expected :9090 got %s", srv.Addr)
	}
	if srv.ReadHeaderTimeout == 0 || srv.WriteTimeout == 0 {
		t.Fatalf("expected timeouts to be set")
	}
}

func TestPlatformPortWins(t *testing.T) {
	t.Setenv("PORT", "5000")
	cfg := &config.Config{App: config.AppConfig{Port: "9090"}}

	if got := Addr(cfg); got != ":5000" {
		t.Fatalf("expected :5000 got %s", got)
	}
}
