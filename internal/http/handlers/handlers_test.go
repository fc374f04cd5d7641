package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/brandforge/brandforge-api/internal/http/mw"
)

func TestHealthCheck(t *testing.T) {
	output, err := HealthCheck(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output == nil {
		t.Fatal("expected output, got nil")
	}
	if output.Body.Status != "healthy" {
		t.Errorf("Status = %q, want %q", output.Body.Status, "healthy")
	}
	if output.Body.Version == "" {
		t.Error("Version should not be empty")
	}
}

func TestLivez(t *testing.T) {
	output, err := Livez(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Body.Status != "ok" {
		t.Errorf("Status = %q, want %q", output.Body.Status, "ok")
	}
}

// mockDBPinger implements DBPinger for testing
type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping() error {
	return m.err
}

func TestReadyzHandler_Readyz_Success(t *testing.T) {
	handler := NewReadyzHandler(&mockDBPinger{})

	output, err := handler.Readyz(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Body.Status != "ok" {
		t.Errorf("Status = %q, want %q", output.Body.Status, "ok")
	}
}

func TestReadyzHandler_Readyz_DBError(t *testing.T) {
	handler := NewReadyzHandler(&mockDBPinger{err: errors.New("connection failed")})

	if _, err := handler.Readyz(context.Background(), nil); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestReadyzHandler_Readyz_NilDB(t *testing.T) {
	handler := NewReadyzHandler(nil)

	output, err := handler.Readyz(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Body.Status != "ok" {
		t.Errorf("Status = %q, want %q", output.Body.Status, "ok")
	}
}

func TestGetUserID_WithClaims(t *testing.T) {
	claims := &mw.UserClaims{UserID: "user-123"}
	ctx := context.WithValue(context.Background(), mw.UserClaimsKey, claims)

	if got := getUserID(ctx); got != "user-123" {
		t.Errorf("getUserID() = %q, want %q", got, "user-123")
	}
}

func TestGetUserID_NoClaims(t *testing.T) {
	if got := getUserID(context.Background()); got != "" {
		t.Errorf("getUserID() = %q, want empty", got)
	}
}
