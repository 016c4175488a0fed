package audit

import (
	"strings"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit/domain"
)

// Audit actions written by the lifecycle engine, the credential catalog and the auth service.
const (
	ActionAssign               = "assign"
	ActionConfirm              = "confirm"
	ActionReportProblem        = "report_problem"
	ActionRevoke               = "revoke"
	ActionDeleteGrant          = "delete_assignment"
	ActionUserOnboarded        = "user_onboarded"
	ActionOffboardingInitiated = "offboarding_initiated"
	ActionOffboardingCompleted = "offboarding_completed"
	ActionStatusChanged        = "status_changed"
	ActionCredentialAdd        = "credential_add"
	ActionCredentialEdit       = "credential_edit"
	ActionCredentialDelete     = "credential_delete"
	ActionRegister             = "register"
	ActionLogin                = "login"
	ActionLoginFailure         = "login_failure"
	ActionAccessDenied         = "access_denied"
)

// Classification holds the severity and category recorded for an action.
type Classification struct {
	Severity domain.Severity
	Category domain.Category
}

// Classify returns severity and category for action. Unknown actions are low/system.
func Classify(action string) Classification {
	switch action {
	case ActionAssign, ActionConfirm:
		return Classification{domain.SeverityLow, domain.CategoryAssignment}
	case ActionReportProblem, ActionRevoke, ActionDeleteGrant:
		return Classification{domain.SeverityMedium, domain.CategoryAssignment}
	case ActionUserOnboarded, ActionStatusChanged:
		return Classification{domain.SeverityMedium, domain.CategoryUserManagement}
	case ActionOffboardingInitiated, ActionOffboardingCompleted:
		return Classification{domain.SeverityHigh, domain.CategoryUserManagement}
	case ActionCredentialAdd, ActionCredentialEdit:
		return Classification{domain.SeverityLow, domain.CategoryCredentialManagement}
	case ActionCredentialDelete:
		return Classification{domain.SeverityMedium, domain.CategoryCredentialManagement}
	case ActionRegister, ActionLogin:
		return Classification{domain.SeverityLow, domain.CategoryAuthentication}
	case ActionLoginFailure:
		return Classification{domain.SeverityMedium, domain.CategoryAuthentication}
	case ActionAccessDenied:
		return Classification{domain.SeverityHigh, domain.CategoryAuthentication}
	default:
		return Classification{domain.SeverityLow, domain.CategorySystem}
	}
}

// MethodName returns the method part of a gRPC full method ("/pkg.Service/Method" -> "Method").
// Input without a slash is returned unchanged.
func MethodName(fullMethod string) string {
	if i := strings.LastIndex(fullMethod, "/"); i >= 0 {
		return fullMethod[i+1:]
	}
	return fullMethod
}
