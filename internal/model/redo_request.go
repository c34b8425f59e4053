package model

import "time"

type RedoDecision string

const (
	RedoPending  RedoDecision = "pending"
	RedoApproved RedoDecision = "approved"
	RedoRejected RedoDecision = "rejected"
)

// RedoRequest 学生发起、教师裁决的重做申请
// 每个提交同时最多一条 pending；已裁决的申请不可变，永久保留
// swagger:model RedoRequest
type RedoRequest struct {
	BaseModel
	SubmissionID   uint         `gorm:"index;not null" json:"submissionId"`
	StudentID      uint         `gorm:"index;not null" json:"studentId"`
	Reason         string       `gorm:"type:text;not null" json:"reason"`
	Decision       RedoDecision `gorm:"size:20;default:'pending';index" json:"decision"`
	TeacherComment string       `gorm:"type:text" json:"teacherComment"`
	DecidedAt      *time.Time   `json:"decidedAt"`
}

func (RedoRequest) TableName() string {
	return "redo_requests"
}
