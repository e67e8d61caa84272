package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestToDomainError_PassesThrough(t *testing.T) {
	orig := NewValidationError("bad input", map[string]any{"field": "x"})
	mapped := ToDomainError(fmt.Errorf("handler: %w", orig))
	if mapped.Code != "VALIDATION_FAILED" || mapped.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("wrapped DomainError not preserved: %+v", mapped)
	}
}

func TestToDomainError_NoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	if mapped.HTTPStatus != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", mapped.HTTPStatus)
	}
}

func TestToDomainError_ConstraintViolations(t *testing.T) {
	cases := []struct {
		code   string
		status int
		want   string
	}{
		{"23505", http.StatusConflict, "CONFLICT"},
		{"23514", http.StatusBadRequest, "VALIDATION_FAILED"},
	}
	for _, tc := range cases {
		err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: tc.code, ConstraintName: "incidents_human_id_key"})
		mapped := ToDomainError(err)
		if mapped.Code != tc.want || mapped.HTTPStatus != tc.status {
			t.Fatalf("pg code %s mapped to %s/%d, want %s/%d",
				tc.code, mapped.Code, mapped.HTTPStatus, tc.want, tc.status)
		}
		if mapped.Details["constraint"] != "incidents_human_id_key" {
			t.Fatalf("constraint detail missing: %+v", mapped.Details)
		}
	}
}

func TestToDomainError_UnknownIsInternal(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	if mapped.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", mapped.HTTPStatus)
	}
	if !errors.Is(mapped, mapped.Err) {
		t.Fatal("original error must stay reachable via Unwrap")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(pgx.ErrNoRows) {
		t.Fatal("pgx.ErrNoRows must count as not found")
	}
	if IsNotFound(errors.New("boom")) {
		t.Fatal("generic errors must not count as not found")
	}
}
