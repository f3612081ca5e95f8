package lead

import (
	"time"

	"gorm.io/gorm"

	"github.com/heliocrm/api-leads/internal/calllog"
)

// Lead is a prospective customer moving through sales, call and install.
// A lead always has exactly one salesman (its creator); call operator and
// technician are assigned later and independently. Leads are never
// hard-deleted in the normal flow: declining is a terminal status.
type Lead struct {
	ID        uint           `gorm:"primaryKey" json:"leadId"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	Name           string       `json:"name"`
	Phone          string       `gorm:"index" json:"phone"`
	SecondaryPhone string       `json:"secondaryPhone,omitempty"`
	Address        string       `json:"address"`
	PropertyType   PropertyType `gorm:"type:varchar(20)" json:"propertyType"`
	Likelihood     Likelihood   `gorm:"type:varchar(10)" json:"likelihood"`

	Status Status `gorm:"type:varchar(20);index;default:'new'" json:"status"`

	SalesmanID   uint   `gorm:"index" json:"salesmanId"`
	SalesmanName string `json:"salesmanName"`

	CallOperatorID   *uint  `gorm:"index" json:"callOperatorId"`
	CallOperatorName string `json:"callOperatorName,omitempty"`

	TechnicianID   *uint  `gorm:"index" json:"technicianId"`
	TechnicianName string `json:"technicianName,omitempty"`

	// Denormalized read-optimizations; the CallLaterLog table is the source
	// of truth. Kept in sync on every insert, repairable via RecountCallLater.
	CallLaterCount      int        `json:"callLaterCount"`
	LastCallLaterDate   *time.Time `json:"lastCallLaterDate,omitempty"`
	LastCallLaterReason string     `json:"lastCallLaterReason,omitempty"`

	CallLogs      []calllog.CallLog      `gorm:"foreignKey:LeadID" json:"callLogs,omitempty"`
	CallLaterLogs []calllog.CallLaterLog `gorm:"foreignKey:LeadID" json:"callLaterLogs,omitempty"`
}
