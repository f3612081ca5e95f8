package calllog

import "time"

// CallLog records a call placed for a lead. Rows are append-only: there is no
// update or delete path, so the model carries no UpdatedAt/DeletedAt.
type CallLog struct {
	ID        uint      `gorm:"primaryKey" json:"callLogId"`
	CreatedAt time.Time `json:"createdAt"`

	LeadID       uint   `gorm:"index;not null" json:"leadId"`
	UserID       uint   `json:"userId"`
	UserName     string `json:"userName"`
	StatusAtCall string `gorm:"type:varchar(20)" json:"statusAtCall"`
	Notes        string `gorm:"type:text" json:"notes"`
}

// CallLaterLog records a deferred callback scheduled by an operator instead of
// an immediate resolution. Append-only, like CallLog.
type CallLaterLog struct {
	ID        uint      `gorm:"primaryKey" json:"callLaterLogId"`
	CreatedAt time.Time `json:"createdAt"`

	LeadID        uint      `gorm:"index;not null" json:"leadId"`
	OperatorID    uint      `json:"operatorId"`
	OperatorName  string    `json:"operatorName"`
	CallLaterDate time.Time `json:"callLaterDate"`
	Reason        string    `json:"reason"`
	Notes         string    `gorm:"type:text" json:"notes"`
}
