package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOPAAuthorizer_DefaultPolicy(t *testing.T) {
	ctx := context.Background()
	a, err := NewOPAAuthorizer(ctx, "")
	if err != nil {
		t.Fatalf("NewOPAAuthorizer: %v", err)
	}
	tests := []struct {
		name string
		req  Request
		want bool
	}{
		{"admin assigns", Request{CallerID: "a", CallerRole: "admin", Operation: OpAssignCredential, TargetIdentityID: "u"}, true},
		{"admin lists audit", Request{CallerID: "a", CallerRole: "admin", Operation: OpListAuditLogs}, true},
		{"member confirms own grant", Request{CallerID: "u", CallerRole: "member", Operation: OpConfirmGrant, TargetIdentityID: "u"}, true},
		{"member reports own grant", Request{CallerID: "u", CallerRole: "member", Operation: OpReportProblem, TargetIdentityID: "u"}, true},
		{"member lists own grants", Request{CallerID: "u", CallerRole: "member", Operation: OpListMyGrants, TargetIdentityID: "u"}, true},
		{"member confirms other's grant", Request{CallerID: "u", CallerRole: "member", Operation: OpConfirmGrant, TargetIdentityID: "v"}, false},
		{"member assigns", Request{CallerID: "u", CallerRole: "member", Operation: OpAssignCredential, TargetIdentityID: "u"}, false},
		{"admin views reports", Request{CallerID: "a", CallerRole: "admin", Operation: OpViewReports}, true},
		{"member views reports", Request{CallerID: "u", CallerRole: "member", Operation: OpViewReports}, false},
		{"member offboards self", Request{CallerID: "u", CallerRole: "member", Operation: OpCompleteOffboarding, TargetIdentityID: "u"}, false},
		{"anonymous with empty target", Request{Operation: OpConfirmGrant}, false},
		{"unknown role", Request{CallerID: "x", CallerRole: "root", Operation: OpGetStats}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Allow(ctx, tt.req)
			if err != nil {
				t.Fatalf("Allow: %v", err)
			}
			if got != tt.want {
				t.Errorf("Allow(%+v) = %v, want %v", tt.req, got, tt.want)
			}
		})
	}
	if err := a.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}
}

func TestOPAAuthorizer_CustomPolicyFromFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "authz.rego")
	policy := `package credential_dashboard.authz

default allow := false

allow if input.operation == "GetStats"
`
	if err := os.WriteFile(path, []byte(policy), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	a, err := NewOPAAuthorizerFromFile(ctx, path)
	if err != nil {
		t.Fatalf("NewOPAAuthorizerFromFile: %v", err)
	}
	if ok, _ := a.Allow(ctx, Request{CallerRole: "member", Operation: OpGetStats}); !ok {
		t.Error("custom policy should allow GetStats for anyone")
	}
	if ok, _ := a.Allow(ctx, Request{CallerRole: "admin", Operation: OpAssignCredential}); ok {
		t.Error("custom policy should deny everything else, even admins")
	}
}

func TestOPAAuthorizer_InvalidPolicy(t *testing.T) {
	if _, err := NewOPAAuthorizer(context.Background(), "package broken\n\nallow if {"); err == nil {
		t.Error("want compile error")
	}
	if _, err := NewOPAAuthorizerFromFile(context.Background(), filepath.Join(t.TempDir(), "missing.rego")); err == nil {
		t.Error("want read error")
	}
}
