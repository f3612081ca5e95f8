package ticket

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Ticket is a customer support request. It follows the same assignment shape
// as a lead: an optional technician owns the field visit.
type Ticket struct {
	ID        uint      `gorm:"primaryKey" json:"ticketId"`
	UUID      uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"uuid"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	Subject       string `gorm:"type:varchar(255)" json:"subject"`
	Description   string `gorm:"type:text" json:"description"`

	Status   Status   `gorm:"type:varchar(20);index;default:'open'" json:"status"`
	Priority Priority `gorm:"type:varchar(10);index;default:'medium'" json:"priority"`

	TechnicianID   *uint  `gorm:"index" json:"technicianId"`
	TechnicianName string `json:"technicianName,omitempty"`

	CreatedByID   uint   `gorm:"index" json:"createdById"`
	CreatedByName string `json:"createdByName"`
}

// BeforeCreate ensures the public UUID is set
func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == uuid.Nil {
		t.UUID = uuid.New()
	}
	return nil
}

// Filter represents filter criteria for ticket queries
type Filter struct {
	Status       *Status
	Priority     *Priority
	TechnicianID *uint
}
