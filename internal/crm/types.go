package crm

import "time"

// Selector addresses one watch target in the CRM: either a holding pool by id
// or a named lead source. Exactly one field should be set.
type Selector struct {
	PoolID string
	Source string
}

// Label returns a human-readable identifier for logging.
func (s Selector) Label() string {
	if s.PoolID != "" {
		return "pool:" + s.PoolID
	}
	return "source:" + s.Source
}

// Agent is the current owner of a lead in the CRM.
type Agent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Lead is an assigned lead record as returned by the directory.
// Assignee is nil for leads sitting unowned in a pool.
type Lead struct {
	ExternalID string `json:"id"`
	Name       string `json:"displayName"`
	Phone      string `json:"phone"`
	Assignee   *Agent `json:"assignee"`
}

// Call is a single call log entry on a lead. Direction is informational;
// the engine only cares that a call exists.
type Call struct {
	Timestamp time.Time `json:"timestamp"`
	Direction string    `json:"direction"`
}

// Source is a CRM source taxonomy entry.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
