package backend

import (
	"errors"
	"testing"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
		wantMsg  string
	}{
		{"bad request", 400, `{"message":"dni invalido"}`, KindValidation, "dni invalido"},
		{"conflict", 409, `{"message":"duplicado"}`, KindValidation, "duplicado"},
		{"unprocessable", 422, `{"error":"campo requerido"}`, KindValidation, "campo requerido"},
		{"unauthorized", 401, `{"message":"token expirado"}`, KindAuthentication, "token expirado"},
		{"forbidden", 403, ``, KindAuthentication, "Forbidden"},
		{"not found", 404, `{"message":"no existe"}`, KindNotFound, "no existe"},
		{"server error", 500, `{"error":"boom"}`, KindInternal, "boom"},
		{"bad gateway", 502, ``, KindInternal, "Bad Gateway"},
		{"message wins over error", 400, `{"message":"m","error":"e"}`, KindValidation, "m"},
		{"non-json body", 400, `<html>oops</html>`, KindValidation, "Bad Request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Translate(tt.status, []byte(tt.body))
			if err.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", err.Kind, tt.wantKind)
			}
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Status != tt.status {
				t.Errorf("Status = %d, want %d", err.Status, tt.status)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := Translate(404, []byte(`{"message":"no existe"}`))
	if !errors.Is(err, ErrNotFound) {
		t.Error("404 translation should match ErrNotFound")
	}
	if errors.Is(err, ErrValidation) {
		t.Error("404 translation should not match ErrValidation")
	}

	var be *Error
	if !errors.As(err, &be) {
		t.Fatal("translation should unwrap as *Error")
	}
	if be.Kind != KindNotFound {
		t.Errorf("Kind = %v, want KindNotFound", be.Kind)
	}
}

func TestConstructors(t *testing.T) {
	if err := ValidationError("bad %s", "dni"); err.Message != "bad dni" || !errors.Is(err, ErrValidation) {
		t.Errorf("ValidationError = %v", err)
	}
	if err := AuthenticationError("no token"); !errors.Is(err, ErrAuthentication) {
		t.Errorf("AuthenticationError = %v", err)
	}
	cause := errors.New("dial tcp: refused")
	wrapped := InternalError(cause)
	if !errors.Is(wrapped, cause) {
		t.Error("InternalError should preserve the cause chain")
	}
}
