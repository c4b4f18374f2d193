package transport

import (
	"time"

	"leadwatch_backend/internal/assignments/repository"
)

// ListAssignmentsRequest contains query filters for assignment history.
type ListAssignmentsRequest struct {
	Status string `form:"status"`
	Source string `form:"source"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// AssignmentResponse represents a lead assignment in API responses.
type AssignmentResponse struct {
	ID             int64      `json:"id"`
	ExternalLeadID string     `json:"externalLeadId"`
	LeadName       string     `json:"leadName"`
	LeadPhone      string     `json:"leadPhone,omitempty"`
	AgentID        string     `json:"agentId"`
	AgentName      string     `json:"agentName"`
	AgentEmail     string     `json:"agentEmail,omitempty"`
	SourceName     string     `json:"sourceName"`
	AssignedAt     time.Time  `json:"assignedAt"`
	TimerExpiresAt time.Time  `json:"timerExpiresAt"`
	Status         string     `json:"status"`
	CallDetectedAt *time.Time `json:"callDetectedAt,omitempty"`
	NotifiedAt     *time.Time `json:"notifiedAt,omitempty"`
	EscalatedAt    *time.Time `json:"escalatedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// AssignmentListResponse wraps a list of assignments.
type AssignmentListResponse struct {
	Items []AssignmentResponse `json:"items"`
	Total int                  `json:"total"`
}

// StatsResponse carries aggregate counts by status.
type StatsResponse struct {
	Counts repository.StatusCounts `json:"counts"`
}

// ToAssignmentResponse maps a repository row to an API response.
func ToAssignmentResponse(a repository.LeadAssignment) AssignmentResponse {
	return AssignmentResponse{
		ID:             a.ID,
		ExternalLeadID: a.ExternalLeadID,
		LeadName:       a.LeadName,
		LeadPhone:      a.LeadPhone,
		AgentID:        a.AgentID,
		AgentName:      a.AgentName,
		AgentEmail:     a.AgentEmail,
		SourceName:     a.SourceName,
		AssignedAt:     a.AssignedAt,
		TimerExpiresAt: a.TimerExpiresAt,
		Status:         string(a.Status),
		CallDetectedAt: a.CallDetectedAt,
		NotifiedAt:     a.NotifiedAt,
		EscalatedAt:    a.EscalatedAt,
		CreatedAt:      a.CreatedAt,
	}
}

// ToAssignmentListResponse maps a slice of rows.
func ToAssignmentListResponse(rows []repository.LeadAssignment) AssignmentListResponse {
	items := make([]AssignmentResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToAssignmentResponse(row))
	}
	return AssignmentListResponse{Items: items, Total: len(items)}
}
