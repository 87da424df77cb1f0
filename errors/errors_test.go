package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew_RetryableDetection(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
	}{
		{ErrCodeTimeout, true},
		{ErrCodeExternalService, true},
		{ErrCodeServiceUnavailable, true},
		{ErrCodeInvalidInput, false},
		{ErrCodeDecode, false},
		{ErrCodeQualityGate, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.code), func(t *testing.T) {
			err := New(tc.code, "msg", http.StatusTeapot)
			if err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v for %s", tc.retryable, tc.code)
			}
			if err.HTTPStatus != http.StatusTeapot {
				t.Errorf("expected status to be preserved, got %d", err.HTTPStatus)
			}
		})
	}
}

func TestExternalServiceError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("exit status 1")
	err := ExternalServiceError("whisperx", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.HTTPStatus != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", err.HTTPStatus)
	}
	if !strings.Contains(err.Error(), "exit status 1") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
}

func TestQualityGate_Details(t *testing.T) {
	err := QualityGate([]string{"orphan_units 4 > 2"})
	v, ok := err.Details["violations"].([]string)
	if !ok || len(v) != 1 {
		t.Fatalf("expected one violation, got %v", err.Details["violations"])
	}
	if err.Retryable {
		t.Error("quality gate failures should not be retryable")
	}
}

func TestInvalidInput_NoField(t *testing.T) {
	err := InvalidInput("", "bad")
	if _, ok := err.Details["field"]; ok {
		t.Error("expected no field detail when field is empty")
	}
}

func TestAsAppError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Decode("whisperx", nil))
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AppError to be found through wrapping")
	}
	if appErr.Code != ErrCodeDecode {
		t.Errorf("expected DECODE_ERROR, got %s", appErr.Code)
	}
	if !IsCode(wrapped, ErrCodeDecode) {
		t.Error("IsCode should match wrapped AppError")
	}
	if IsCode(stderrors.New("plain"), ErrCodeDecode) {
		t.Error("IsCode should not match plain errors")
	}
}

func TestToResponse(t *testing.T) {
	resp := NotFound("provider", "whisper").WithDetail("hint", "register it").ToResponse()
	if resp.Error.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", resp.Error.Code)
	}
	if resp.Error.Details["id"] != "whisper" || resp.Error.Details["hint"] != "register it" {
		t.Errorf("unexpected details: %v", resp.Error.Details)
	}
}
