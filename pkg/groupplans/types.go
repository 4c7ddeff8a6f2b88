package groupplans

import "time"

// Plan lifecycle states
const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// GroupPlan is a planned group event with a bounded participant roster
type GroupPlan struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"createdAt"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	Location        string    `json:"location"`
	CreatorID       int64     `json:"creatorId"`
	Status          string    `json:"status"`
	MaxParticipants int       `json:"maxParticipants"`
	Budget          float64   `json:"budget"`
	ImageURL        string    `json:"imageUrl"`
	ParticipantIDs  []int64   `json:"participantIds"`
}

// IsFull reports whether the roster has reached capacity
func (p *GroupPlan) IsFull() bool {
	return len(p.ParticipantIDs) >= p.MaxParticipants
}
