package domain

import "time"

// Plan is one scan-remediation plan document.
type Plan struct {
	ID        int       `json:"id"`
	Domain    string    `json:"domain"`
	Problem   string    `json:"problem"`
	PlanID    string    `json:"plan_id"`
	PlanText  string    `json:"plan_text"`
	Solution  string    `json:"solution"`
	CreatedAt time.Time `json:"created_at"`
}

// PlanInput is the client-supplied plan payload. Every field is optional;
// Normalize fills the enumerated defaults.
type PlanInput struct {
	Domain   string `json:"domain"`
	Problem  string `json:"problem"`
	PlanID   string `json:"plan_id"`
	PlanText string `json:"plan_text"`
	Solution string `json:"solution"`
}

// IsEmpty reports whether the input carries no data at all.
func (in PlanInput) IsEmpty() bool {
	return in.Domain == "" && in.Problem == "" && in.PlanID == "" &&
		in.PlanText == "" && in.Solution == ""
}

// Normalize returns a Plan with defaults applied for absent fields. The id
// and creation time are assigned by the store.
func (in PlanInput) Normalize() Plan {
	p := Plan{
		Domain:   in.Domain,
		Problem:  in.Problem,
		PlanID:   in.PlanID,
		PlanText: in.PlanText,
		Solution: in.Solution,
	}
	if p.Domain == "" {
		p.Domain = "default-domain"
	}
	if p.Problem == "" {
		p.Problem = "default-problem"
	}
	if p.PlanID == "" {
		p.PlanID = "default-plan-id"
	}
	if p.PlanText == "" {
		p.PlanText = "default-plan-text"
	}
	if p.Solution == "" {
		p.Solution = "default-solution"
	}
	return p
}
