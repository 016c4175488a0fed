package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	lifecyclev1 "github.com/Rohitbatham1306/credential-dashbaord/api/lifecycle/v1"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit/domain"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit/repository"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/policy/engine"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/server/interceptors"
)

type failingLister struct{}

func (failingLister) List(context.Context, domain.Filter) ([]*domain.AuditLog, error) {
	return nil, errors.New("connection reset")
}

func newAuthz(t *testing.T) engine.Authorizer {
	t.Helper()
	authz, err := engine.NewOPAAuthorizer(context.Background(), "")
	if err != nil {
		t.Fatalf("NewOPAAuthorizer: %v", err)
	}
	return authz
}

func adminCtx() context.Context {
	return interceptors.WithCaller(context.Background(), interceptors.Caller{ID: "a", Email: "admin@company.com", Role: "admin"})
}

func seeded(t *testing.T) *repository.MemoryRepository {
	t.Helper()
	repo := repository.NewMemoryRepository()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []*domain.AuditLog{
		{ID: "1", ActorEmail: "admin@company.com", Action: "assign", IdentityID: "u1", Category: domain.CategoryAssignment, Severity: domain.SeverityMedium, CreatedAt: base},
		{ID: "2", ActorEmail: "ada@example.com", Action: "confirm", IdentityID: "u1", Category: domain.CategoryAssignment, Severity: domain.SeverityLow, CreatedAt: base.Add(time.Minute)},
		{ID: "3", ActorEmail: "ada@example.com", Action: "report_problem", IdentityID: "u1", Category: domain.CategoryReport, Severity: domain.SeverityHigh, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "4", ActorEmail: "admin@company.com", Action: "assign", IdentityID: "u2", Category: domain.CategoryAssignment, Severity: domain.SeverityMedium, CreatedAt: base.Add(3 * time.Minute)},
	}
	for _, e := range entries {
		if err := repo.Create(context.Background(), e); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	return repo
}

func ids(entries []*lifecyclev1.AuditLog) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestListAuditLogs_NilRepo(t *testing.T) {
	srv := NewServer(nil, nil)
	_, err := srv.ListAuditLogs(adminCtx(), &lifecyclev1.ListAuditLogsRequest{})
	if status.Code(err) != codes.Unimplemented {
		t.Fatalf("code = %v, want Unimplemented", status.Code(err))
	}
}

func TestListAuditLogs_MemberDenied(t *testing.T) {
	srv := NewServer(seeded(t), newAuthz(t))
	ctx := interceptors.WithCaller(context.Background(), interceptors.Caller{ID: "u1", Email: "ada@example.com", Role: "member"})
	_, err := srv.ListAuditLogs(ctx, &lifecyclev1.ListAuditLogsRequest{})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("code = %v, want PermissionDenied", status.Code(err))
	}
}

func TestListAuditLogs_Filters(t *testing.T) {
	srv := NewServer(seeded(t), newAuthz(t))
	since := time.Date(2026, 3, 1, 9, 1, 0, 0, time.UTC)
	tests := []struct {
		name string
		req  *lifecyclev1.ListAuditLogsRequest
		want []string
	}{
		{"all newest first", &lifecyclev1.ListAuditLogsRequest{}, []string{"4", "3", "2", "1"}},
		{"by actor", &lifecyclev1.ListAuditLogsRequest{ActorEmail: "ada@example.com"}, []string{"3", "2"}},
		{"by action", &lifecyclev1.ListAuditLogsRequest{Action: "assign"}, []string{"4", "1"}},
		{"by category", &lifecyclev1.ListAuditLogsRequest{Category: "report"}, []string{"3"}},
		{"by severity", &lifecyclev1.ListAuditLogsRequest{Severity: "medium"}, []string{"4", "1"}},
		{"by identity", &lifecyclev1.ListAuditLogsRequest{IdentityID: "u2"}, []string{"4"}},
		{"since", &lifecyclev1.ListAuditLogsRequest{Since: &since}, []string{"4", "3", "2"}},
		{"page", &lifecyclev1.ListAuditLogsRequest{Limit: 2, Offset: 1}, []string{"3", "2"}},
		{"past the end", &lifecyclev1.ListAuditLogsRequest{Offset: 10}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := srv.ListAuditLogs(adminCtx(), tt.req)
			if err != nil {
				t.Fatalf("ListAuditLogs: %v", err)
			}
			got := ids(resp.Entries)
			if len(got) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("ids = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestListAuditLogs_InvalidRange(t *testing.T) {
	srv := NewServer(seeded(t), newAuthz(t))
	since := time.Now()
	until := since.Add(-time.Hour)
	_, err := srv.ListAuditLogs(adminCtx(), &lifecyclev1.ListAuditLogsRequest{Since: &since, Until: &until})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %v, want InvalidArgument", status.Code(err))
	}
	_, err = srv.ListAuditLogs(adminCtx(), &lifecyclev1.ListAuditLogsRequest{Offset: -1})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %v, want InvalidArgument", status.Code(err))
	}
}

func TestListAuditLogs_RepoError(t *testing.T) {
	srv := NewServer(failingLister{}, newAuthz(t))
	_, err := srv.ListAuditLogs(adminCtx(), &lifecyclev1.ListAuditLogsRequest{})
	if status.Code(err) != codes.Internal {
		t.Fatalf("code = %v, want Internal", status.Code(err))
	}
}
