package leads

import "time"

// Lead lifecycle statuses. Transitions are advisory; the store does not
// reject out-of-order updates.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusClosed    = "closed"
)

// Priority tiers assigned at routing time.
const (
	PriorityStandard = "standard"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityUrgent   = "urgent"
)

// Lead represents one prospective client inquiry.
type Lead struct {
	ID                string     `json:"id"`
	FullName          string     `json:"full_name"`
	Phone             string     `json:"phone"`
	Email             string     `json:"email,omitempty"`
	PropertyInterest  string     `json:"property_interest"`
	PropertyRef       string     `json:"property_ref,omitempty"`
	BudgetRange       string     `json:"budget_range,omitempty"`
	PropertyType      string     `json:"property_type,omitempty"`
	ContactPreference string     `json:"contact_preference,omitempty"`
	Source            string     `json:"source"`
	AssignedAgent     string     `json:"assigned_agent"`
	Priority          string     `json:"priority"`
	Status            string     `json:"status"`
	Notes             string     `json:"notes,omitempty"`
	LastContactedAt   *time.Time `json:"last_contacted_at,omitempty"`
	ContactCount      int        `json:"contact_count"`
	UserAgent         string     `json:"user_agent,omitempty"`
	IPAddress         string     `json:"ip_address,omitempty"`
	ReferrerURL       string     `json:"referrer_url,omitempty"`
	UTMSource         string     `json:"utm_source,omitempty"`
	UTMMedium         string     `json:"utm_medium,omitempty"`
	UTMCampaign       string     `json:"utm_campaign,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// LastSeenAt returns the reference time for the duplicate window: the
// last contact if one happened, otherwise creation time.
func (l *Lead) LastSeenAt() time.Time {
	if l.LastContactedAt != nil && !l.LastContactedAt.IsZero() {
		return *l.LastContactedAt
	}
	return l.CreatedAt
}

// ListFilter narrows admin lead listings.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

// ValidStatus reports whether s is one of the known lifecycle statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusClosed:
		return true
	}
	return false
}
