package domain

import "time"

// Grant assigns one CredentialType to one Identity. The three flags are independent.
//
// Confirm clears Problematic but a problem report leaves Confirmed untouched, so a grant
// can be both confirmed and problematic. Both flags are kept as recorded; the display
// state below resolves the pair to "Confirmed".
type Grant struct {
	ID               string
	IdentityID       string
	CredentialTypeID string
	Confirmed        bool
	Problematic      bool
	Inactive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DisplayState is the single label shown for a grant. It is derived, never stored.
type DisplayState string

const (
	DisplayInactive    DisplayState = "Inactive"
	DisplayConfirmed   DisplayState = "Confirmed"
	DisplayProblematic DisplayState = "Problematic"
	DisplayPending     DisplayState = "Pending"
)

// Display resolves the flags with precedence inactive > confirmed > problematic > pending.
// Confirming clears Problematic but reporting leaves Confirmed set, so a grant with a problem
// reported after confirmation still displays as Confirmed. Both flags are kept in storage.
func (g *Grant) Display() DisplayState {
	switch {
	case g.Inactive:
		return DisplayInactive
	case g.Confirmed:
		return DisplayConfirmed
	case g.Problematic:
		return DisplayProblematic
	default:
		return DisplayPending
	}
}

// Counts is the aggregate over all grants of one identity that status derivation needs.
type Counts struct {
	Total int
	// Inactive counts grants with the inactive flag set.
	Inactive int
	// Confirmed counts confirmed grants that are not inactive.
	Confirmed int
}

// Count aggregates grants into Counts.
func Count(grants []*Grant) Counts {
	var c Counts
	for _, g := range grants {
		if g == nil {
			continue
		}
		c.Total++
		if g.Inactive {
			c.Inactive++
		} else if g.Confirmed {
			c.Confirmed++
		}
	}
	return c
}

// Detail is a grant joined with its credential type, as shown on dashboards.
type Detail struct {
	Grant
	CredentialName        string
	CredentialDescription string
}
