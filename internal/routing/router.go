// Package routing maps lead attributes to an assigned agent and a
// priority tier. Two rule sets exist because the capture funnel and the
// inquiry API grew separately; they are intentionally not unified.
package routing

import "strings"

// Agent identifies a member of the sales team.
type Agent struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	WhatsApp string `json:"whatsapp,omitempty"`
}

var (
	// SeniorAgent handles luxury and commercial requests.
	SeniorAgent = Agent{ID: "agent-001", Name: "Omar Hassan", Role: "Senior Agent", WhatsApp: "+971566665560"}
	// JuniorAgent takes standard inquiries.
	JuniorAgent = Agent{ID: "agent-002", Name: "Lina Farouk", Role: "Junior Agent", WhatsApp: "+971501234568"}
	// CEOAgent takes high-value and investment-campaign leads directly.
	CEOAgent = Agent{ID: "agent-003", Name: "Mohamad Kodmani", Role: "CEO"}
)

// Assignment is the outcome of the capture-funnel rule set.
type Assignment struct {
	Agent    Agent
	Priority string
}

// Decision is the outcome of the inquiry rule set, carrying the
// explanation surfaced by the routing preview endpoint.
type Decision struct {
	Agent       Agent  `json:"assigned_agent"`
	Priority    string `json:"priority"`
	Reason      string `json:"routing_reason"`
	AutoReplies bool   `json:"auto_replies"`
}

// Priority labels. The capture funnel uses medium/high, the inquiry
// rule set standard/high/urgent; both vocabularies are kept.
const (
	PriorityStandard = "standard"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityUrgent   = "urgent"
)

// Assign applies the capture-funnel rules. First match wins:
// high-value markers in the budget range or a Penthouse go to the CEO,
// Commercial goes to the specialist, everything else to the junior
// agent.
func Assign(budgetRange, propertyType string) Assignment {
	highValue := strings.Contains(budgetRange, "5M") ||
		strings.Contains(budgetRange, "10M") ||
		strings.Contains(budgetRange, "+") ||
		propertyType == "Penthouse"

	if highValue {
		return Assignment{Agent: CEOAgent, Priority: PriorityHigh}
	}
	if propertyType == "Commercial" {
		return Assignment{Agent: SeniorAgent, Priority: PriorityHigh}
	}
	return Assignment{Agent: JuniorAgent, Priority: PriorityMedium}
}

// RouteInquiry applies the inquiry rule set used by the routing preview
// endpoint. Thresholds deliberately differ from Assign; see package
// comment.
func RouteInquiry(budget int64, propertyType, source string) Decision {
	if budget >= 2_000_000 || propertyType == "Penthouse" || propertyType == "Villa" {
		return Decision{
			Agent:       SeniorAgent,
			Priority:    PriorityHigh,
			Reason:      "High budget threshold (> 2M AED) or Luxury Property Type",
			AutoReplies: true,
		}
	}
	if propertyType == "Commercial" || propertyType == "Office" {
		return Decision{
			Agent:    SeniorAgent,
			Priority: PriorityHigh,
			Reason:   "Specialized Commercial Request",
		}
	}
	if source == "meta_ads_investment" {
		return Decision{
			Agent:    CEOAgent,
			Priority: PriorityUrgent,
			Reason:   "Direct CEO handling for Investment Ad Campaign",
		}
	}
	return Decision{
		Agent:    JuniorAgent,
		Priority: PriorityStandard,
		Reason:   "Standard Round-Robin Assignment",
	}
}
