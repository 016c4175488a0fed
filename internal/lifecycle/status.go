package lifecycle

import (
	grantdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/grant/domain"
	identitydomain "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/domain"
)

// DeriveStatus maps all grants of one identity to a lifecycle status.
// The problematic flag is not consulted.
func DeriveStatus(grants []*grantdomain.Grant) identitydomain.Status {
	return DeriveFromCounts(grantdomain.Count(grants))
}

// DeriveFromCounts is DeriveStatus over a precomputed aggregate, so stores can count in SQL.
func DeriveFromCounts(c grantdomain.Counts) identitydomain.Status {
	switch {
	case c.Total > 0 && c.Inactive == c.Total:
		return identitydomain.StatusOffboarded
	case c.Inactive > 0:
		return identitydomain.StatusOffboardingInProgress
	case c.Total > 0 && c.Confirmed == c.Total:
		return identitydomain.StatusOnboarded
	default:
		return identitydomain.StatusPending
	}
}
