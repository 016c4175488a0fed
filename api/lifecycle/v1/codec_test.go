package lifecyclev1

import (
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc/encoding"
)

func TestEnsureCodec_Registers(t *testing.T) {
	EnsureCodec()
	EnsureCodec()
	c := encoding.GetCodec(CodecName)
	if c == nil {
		t.Fatal("json codec not registered")
	}
	if c.Name() != "json" {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestJSONCodec_WireNames(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	in := &LoginResponse{
		AccessToken: "tok",
		ExpiresAt:   at,
		Identity:    &Identity{ID: "u-1", Email: "ada@example.com", Status: "Pending", CreatedAt: at},
	}
	data, err := jsonCodec{}.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"access_token":"tok"`, `"expires_at":"2025-03-01T09:00:00Z"`, `"status":"Pending"`} {
		if !strings.Contains(s, want) {
			t.Errorf("encoded %s missing %s", s, want)
		}
	}
	if strings.Contains(s, "onboarded_at") {
		t.Errorf("unset onboarded_at should be omitted: %s", s)
	}

	var out LoginResponse
	if err := (jsonCodec{}).Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Identity == nil || out.Identity.Email != "ada@example.com" || !out.ExpiresAt.Equal(at) {
		t.Errorf("decoded %+v", out)
	}
}

func TestJSONCodec_RejectsMalformed(t *testing.T) {
	var out LoginRequest
	if err := (jsonCodec{}).Unmarshal([]byte("{"), &out); err == nil {
		t.Error("expected error for truncated JSON")
	}
}
