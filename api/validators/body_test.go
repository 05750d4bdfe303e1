package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
)

type sampleBody struct {
	Name string `json:"name" validate:"required,min=3"`
	Kind string `json:"kind" validate:"omitempty,oneof=card cash"`
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ab","kind":"gold"}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %#v", typed.Details())
	}
	if details["name"] != "must be at least 3" || details["kind"] != "must be one of card cash" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"abc","extra":1}`))
	var body sampleBody
	if err := DecodeJSONBody(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeOptionalJSONBodyAllowsEmpty(t *testing.T) {
	type optional struct {
		Note string `json:"note" validate:"omitempty,max=10"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	var body optional
	if err := DecodeOptionalJSONBody(req, &body); err != nil {
		t.Fatalf("expected empty body to pass, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsOversizedBody(t *testing.T) {
	huge := `{"name":"` + strings.Repeat("a", maxBody) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(huge))
	var body sampleBody
	if err := DecodeJSONBody(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for oversized body, got %v", err)
	}
}

func TestDecodeOptionalJSONBodyValidatesZeroValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	var body sampleBody
	err := DecodeOptionalJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected missing name to fail, got %v", err)
	}
	if details, _ := typed.Details().(map[string]string); details["name"] != "is required" {
		t.Fatalf("unexpected details %#v", typed.Details())
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	if _, err := ParseQueryInt(req, "limit", 10, 1, 100); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected range error, got %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	v, err := ParseQueryInt(req, "limit", 10, 1, 100)
	if err != nil || v != 10 {
		t.Fatalf("expected default 10, got %d %v", v, err)
	}
}
