package model

type AuditStatus string

const (
	AuditSuccess AuditStatus = "success"
	AuditFail    AuditStatus = "fail"
)

// AuditLog records one mutating call: who did what, from where, with what
// outcome. Written for successes and failures alike, never updated.
type AuditLog struct {
	BaseModel
	Module      string      `gorm:"type:varchar(100);not null;index" json:"module"`
	Action      string      `gorm:"type:varchar(50);not null" json:"action"`
	Description string      `gorm:"type:varchar(255)" json:"description"`
	Operator    string      `gorm:"type:varchar(100);not null;index" json:"operator"`
	IP          string      `gorm:"type:varchar(45)" json:"ip"`
	Location    string      `gorm:"type:varchar(100)" json:"location"`
	Status      AuditStatus `gorm:"type:varchar(10);default:'success'" json:"status"`
	DurationMs  int64       `json:"duration_ms"`
	Params      string      `gorm:"type:text" json:"params"`
	ErrorMsg    string      `gorm:"type:text" json:"error_msg,omitempty"`
}
