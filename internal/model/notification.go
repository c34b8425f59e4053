package model

type NotificationKind string

const (
	NotifySubmitted     NotificationKind = "submitted"
	NotifyGraded        NotificationKind = "graded"
	NotifyRedoRequested NotificationKind = "redo_requested"
	NotifyRedoApproved  NotificationKind = "redo_approved"
	NotifyRedoRejected  NotificationKind = "redo_rejected"
)

// Notification 工作流事件的站内通知，除已读标记外不可变
// swagger:model Notification
type Notification struct {
	BaseModel
	RecipientID   uint             `gorm:"index:idx_recipient;not null" json:"recipientId"`
	RecipientRole UserRole         `gorm:"index:idx_recipient;size:20;not null" json:"recipientRole"`
	Kind          NotificationKind `gorm:"size:30;not null" json:"kind"`
	Title         string           `gorm:"size:255;not null" json:"title"`
	Body          string           `gorm:"type:text" json:"body"`
	IsRead        bool             `gorm:"default:false" json:"isRead"`
}

func (Notification) TableName() string {
	return "notifications"
}
