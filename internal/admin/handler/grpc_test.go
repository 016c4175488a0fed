package handler

import (
	"context"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	lifecyclev1 "github.com/Rohitbatham1306/credential-dashbaord/api/lifecycle/v1"
	credentialdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/credential/domain"
	identitydomain "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/domain"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/lifecycle"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/policy/engine"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/server/interceptors"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/store"
)

type fixture struct {
	srv    *Server
	admin  context.Context
	member context.Context
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemoryStore()
	for _, i := range []*identitydomain.Identity{
		{ID: "a", Email: "admin@company.com", Name: "Admin", Role: identitydomain.RoleAdmin, Status: identitydomain.StatusPending},
		{ID: "u", Email: "ada@example.com", Name: "Ada", Role: identitydomain.RoleMember, Status: identitydomain.StatusPending},
	} {
		if err := st.CreateIdentity(ctx, i); err != nil {
			t.Fatalf("CreateIdentity: %v", err)
		}
	}
	for _, c := range []*credentialdomain.CredentialType{{ID: "vpn", Name: "VPN"}, {ID: "git", Name: "GitHub"}} {
		if err := st.CreateCredentialType(ctx, c); err != nil {
			t.Fatalf("CreateCredentialType: %v", err)
		}
	}
	authz, err := engine.NewOPAAuthorizer(ctx, "")
	if err != nil {
		t.Fatalf("NewOPAAuthorizer: %v", err)
	}
	return fixture{
		srv:    NewServer(lifecycle.NewEngine(st), authz),
		admin:  interceptors.WithCaller(ctx, interceptors.Caller{ID: "a", Email: "admin@company.com", Role: "admin"}),
		member: interceptors.WithCaller(ctx, interceptors.Caller{ID: "u", Email: "ada@example.com", Role: "member"}),
	}
}

func wantCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	if got := status.Code(err); got != want {
		t.Fatalf("code = %v, want %v (err %v)", got, want, err)
	}
}

func TestServer_NilEngine(t *testing.T) {
	srv := NewServer(nil, nil)
	ctx := context.Background()
	_, err := srv.GetStats(ctx, &lifecyclev1.GetStatsRequest{})
	wantCode(t, err, codes.Unimplemented)
	_, err = srv.CompleteOffboarding(ctx, &lifecyclev1.IdentityRequest{IdentityID: "u"})
	wantCode(t, err, codes.Unimplemented)
	_, err = srv.ListAssignments(ctx, &lifecyclev1.ListAssignmentsRequest{})
	wantCode(t, err, codes.Unimplemented)
}

func TestServer_RequiresAdmin(t *testing.T) {
	f := newFixture(t)
	_, err := f.srv.AssignCredential(f.member, &lifecyclev1.AssignCredentialRequest{IdentityID: "u", CredentialTypeID: "vpn"})
	wantCode(t, err, codes.PermissionDenied)
	_, err = f.srv.ListIdentities(context.Background(), &lifecyclev1.ListIdentitiesRequest{})
	wantCode(t, err, codes.Unauthenticated)
	_, err = f.srv.InitiateOffboarding(f.member, &lifecyclev1.IdentityRequest{IdentityID: "u"})
	wantCode(t, err, codes.PermissionDenied)
}

func TestServer_AssignRevokeOffboard(t *testing.T) {
	f := newFixture(t)

	res, err := f.srv.AssignCredential(f.admin, &lifecyclev1.AssignCredentialRequest{IdentityID: "u", CredentialTypeID: "vpn"})
	if err != nil {
		t.Fatalf("AssignCredential: %v", err)
	}
	if res.Grant.State != "Pending" || res.Identity.Status != "Pending" {
		t.Errorf("after assign: grant %s identity %s", res.Grant.State, res.Identity.Status)
	}
	vpnGrant := res.Grant.ID

	_, err = f.srv.AssignCredential(f.admin, &lifecyclev1.AssignCredentialRequest{IdentityID: "u", CredentialTypeID: "vpn"})
	wantCode(t, err, codes.AlreadyExists)
	_, err = f.srv.AssignCredential(f.admin, &lifecyclev1.AssignCredentialRequest{IdentityID: "nobody", CredentialTypeID: "vpn"})
	wantCode(t, err, codes.NotFound)
	_, err = f.srv.AssignCredential(f.admin, &lifecyclev1.AssignCredentialRequest{IdentityID: "u"})
	wantCode(t, err, codes.InvalidArgument)

	if _, err := f.srv.AssignCredential(f.admin, &lifecyclev1.AssignCredentialRequest{IdentityID: "u", CredentialTypeID: "git"}); err != nil {
		t.Fatalf("AssignCredential git: %v", err)
	}
	rev, err := f.srv.RevokeGrant(f.admin, &lifecyclev1.RevokeGrantRequest{GrantID: vpnGrant})
	if err != nil {
		t.Fatalf("RevokeGrant: %v", err)
	}
	if rev.Grant.State != "Inactive" || rev.Identity.Status != "OffboardingInProgress" {
		t.Errorf("after revoke: grant %s identity %s", rev.Grant.State, rev.Identity.Status)
	}
	_, err = f.srv.DeleteGrant(f.admin, &lifecyclev1.DeleteGrantRequest{GrantID: vpnGrant})
	wantCode(t, err, codes.FailedPrecondition)

	done, err := f.srv.CompleteOffboarding(f.admin, &lifecyclev1.IdentityRequest{IdentityID: "u"})
	if err != nil {
		t.Fatalf("CompleteOffboarding: %v", err)
	}
	if !done.Changed || done.From != "OffboardingInProgress" || done.To != "Offboarded" || done.Identity.OffboardedAt == nil {
		t.Errorf("CompleteOffboarding = %+v", done)
	}
	_, err = f.srv.CompleteOffboarding(f.admin, &lifecyclev1.IdentityRequest{IdentityID: "u"})
	wantCode(t, err, codes.AlreadyExists)
	_, err = f.srv.AssignCredential(f.admin, &lifecyclev1.AssignCredentialRequest{IdentityID: "u", CredentialTypeID: "vpn"})
	wantCode(t, err, codes.FailedPrecondition)

	detail, err := f.srv.GetIdentity(f.admin, &lifecyclev1.GetIdentityRequest{IdentityID: "u"})
	if err != nil {
		t.Fatalf("GetIdentity: %v", err)
	}
	if len(detail.Grants) != 2 {
		t.Fatalf("grants = %d, want 2", len(detail.Grants))
	}
	for _, g := range detail.Grants {
		if g.State != "Inactive" || g.CredentialName == "" {
			t.Errorf("grant after offboarding = %+v", g)
		}
	}

	again, err := f.srv.RecomputeStatus(f.admin, &lifecyclev1.IdentityRequest{IdentityID: "u"})
	if err != nil {
		t.Fatalf("RecomputeStatus: %v", err)
	}
	if again.Changed || again.To != "Offboarded" {
		t.Errorf("RecomputeStatus = %+v, want unchanged Offboarded", again)
	}

	stats, err := f.srv.GetStats(f.admin, &lifecyclev1.GetStatsRequest{})
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Total != 2 || stats.Pending != 1 || stats.Offboarded != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestServer_OnboardAndList(t *testing.T) {
	f := newFixture(t)
	res, err := f.srv.OnboardIdentity(f.admin, &lifecyclev1.IdentityRequest{IdentityID: "u"})
	if err != nil {
		t.Fatalf("OnboardIdentity: %v", err)
	}
	if res.To != "Onboarded" || res.Identity.OnboardedAt == nil {
		t.Errorf("OnboardIdentity = %+v", res)
	}
	_, err = f.srv.OnboardIdentity(f.admin, &lifecyclev1.IdentityRequest{IdentityID: "u"})
	wantCode(t, err, codes.AlreadyExists)
	_, err = f.srv.OnboardIdentity(f.admin, &lifecyclev1.IdentityRequest{})
	wantCode(t, err, codes.InvalidArgument)

	list, err := f.srv.ListIdentities(f.admin, &lifecyclev1.ListIdentitiesRequest{})
	if err != nil {
		t.Fatalf("ListIdentities: %v", err)
	}
	if len(list.Identities) != 2 || list.Identities[0].Email != "ada@example.com" {
		t.Errorf("ListIdentities = %+v, want two ordered by email", list.Identities)
	}
}

func TestServer_Reports(t *testing.T) {
	f := newFixture(t)

	vpn, err := f.srv.AssignCredential(f.admin, &lifecyclev1.AssignCredentialRequest{IdentityID: "u", CredentialTypeID: "vpn"})
	if err != nil {
		t.Fatalf("AssignCredential vpn: %v", err)
	}
	if _, err := f.srv.AssignCredential(f.admin, &lifecyclev1.AssignCredentialRequest{IdentityID: "u", CredentialTypeID: "git"}); err != nil {
		t.Fatalf("AssignCredential git: %v", err)
	}
	if _, err := f.srv.RevokeGrant(f.admin, &lifecyclev1.RevokeGrantRequest{GrantID: vpn.Grant.ID}); err != nil {
		t.Fatalf("RevokeGrant: %v", err)
	}

	ids, err := f.srv.ListIdentitySummaries(f.admin, &lifecyclev1.ListIdentitySummariesRequest{})
	if err != nil {
		t.Fatalf("ListIdentitySummaries: %v", err)
	}
	if len(ids.Summaries) != 2 {
		t.Fatalf("identity summaries = %d, want 2", len(ids.Summaries))
	}
	ada := ids.Summaries[0]
	if ada.Identity.Email != "ada@example.com" || ada.TotalGrants != 2 || ada.InactiveGrants != 1 || ada.ConfirmedGrants != 0 {
		t.Errorf("ada summary = %+v", ada)
	}
	if admin := ids.Summaries[1]; admin.TotalGrants != 0 {
		t.Errorf("admin summary = %+v, want no grants", admin)
	}

	creds, err := f.srv.ListCredentialSummaries(f.admin, &lifecyclev1.ListCredentialSummariesRequest{})
	if err != nil {
		t.Fatalf("ListCredentialSummaries: %v", err)
	}
	if len(creds.Summaries) != 2 {
		t.Fatalf("credential summaries = %d, want 2", len(creds.Summaries))
	}
	git, vpnSum := creds.Summaries[0], creds.Summaries[1]
	if git.CredentialType.Name != "GitHub" || git.TotalGrants != 1 || git.PendingGrants != 1 {
		t.Errorf("GitHub summary = %+v", git)
	}
	if vpnSum.CredentialType.Name != "VPN" || vpnSum.InactiveGrants != 1 || vpnSum.PendingGrants != 0 {
		t.Errorf("VPN summary = %+v", vpnSum)
	}

	list, err := f.srv.ListAssignments(f.admin, &lifecyclev1.ListAssignmentsRequest{})
	if err != nil {
		t.Fatalf("ListAssignments: %v", err)
	}
	if len(list.Assignments) != 2 {
		t.Fatalf("assignments = %d, want 2", len(list.Assignments))
	}
	for _, a := range list.Assignments {
		if a.IdentityEmail != "ada@example.com" || a.IdentityStatus != "OffboardingInProgress" || a.Grant.CredentialName == "" {
			t.Errorf("assignment = %+v grant %+v", a, a.Grant)
		}
		if a.Grant.ID == vpn.Grant.ID && a.Grant.State != "Inactive" {
			t.Errorf("revoked grant state = %s", a.Grant.State)
		}
	}

	_, err = f.srv.ListAssignments(f.member, &lifecyclev1.ListAssignmentsRequest{})
	wantCode(t, err, codes.PermissionDenied)
	_, err = f.srv.ListIdentitySummaries(f.member, &lifecyclev1.ListIdentitySummariesRequest{})
	wantCode(t, err, codes.PermissionDenied)
	_, err = f.srv.ListCredentialSummaries(context.Background(), &lifecyclev1.ListCredentialSummariesRequest{})
	wantCode(t, err, codes.Unauthenticated)
}
