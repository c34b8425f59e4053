package model

import (
	"encoding/json"
	"time"
)

type SubmissionState string

const (
	StateSubmitted    SubmissionState = "submitted"
	StateReviewed     SubmissionState = "reviewed"
	StateRedoPending  SubmissionState = "redo_pending"
	StateRedoApproved SubmissionState = "redo_approved"
)

type PayloadKind string

const (
	PayloadCode     PayloadKind = "code"
	PayloadDocument PayloadKind = "document"
)

// SubmissionPayload 提交内容，按类型二选一：代码文件集合或文档
type SubmissionPayload struct {
	Kind        PayloadKind       `json:"kind"`
	Files       map[string]string `json:"files,omitempty"`       // 代码提交：文件名 -> 内容
	Text        string            `json:"text,omitempty"`        // 文档提交：正文
	Attachments []string          `json:"attachments,omitempty"` // 文档提交：已上传附件的对象键
}

// Submission 一个学生针对一个作业的提交记录，含评分与重做历史
// 每个 (assignment, student) 组合只有一条记录，重做时原地覆盖，不删除
// swagger:model Submission
type Submission struct {
	BaseModel
	AssignmentID uint            `gorm:"uniqueIndex:idx_assignment_student;not null" json:"assignmentId"`
	StudentID    uint            `gorm:"uniqueIndex:idx_assignment_student;not null" json:"studentId"`
	PayloadKind  PayloadKind     `gorm:"size:20;not null" json:"payloadKind"`
	Payload      json.RawMessage `gorm:"type:json" json:"payload"`
	SubmittedAt  time.Time       `json:"submittedAt"`
	Score        *int            `json:"score"`
	Comment      *string         `gorm:"type:text" json:"comment"`
	State        SubmissionState `gorm:"size:20;default:'submitted';index" json:"state"`
	RedoCount    int             `gorm:"default:0" json:"redoCount"`
}

func (Submission) TableName() string {
	return "submissions"
}

// Gradable 是否处于可评分状态（已提交，或重做获批但学生尚未重交）
func (s *Submission) Gradable() bool {
	return s.State == StateSubmitted || s.State == StateRedoApproved
}
