package service

import "classwork_backend/internal/model"

// 服务层依赖窄接口，便于单测替换；gorm 仓库是生产实现

// AssignmentCatalog 外部课程系统维护的作业目录，只读
type AssignmentCatalog interface {
	FindByID(id uint) (*model.Assignment, error)
	Exists(id uint) (bool, error)
}

type SubmissionStore interface {
	Create(submission *model.Submission) error
	Save(submission *model.Submission) error
	FindByID(id uint) (*model.Submission, error)
	FindByPair(assignmentID, studentID uint) (*model.Submission, error)
	ListByAssignment(assignmentID uint) ([]model.Submission, error)
}

type RedoRequestStore interface {
	// CreateWithSubmission 新建申请并保存提交，两者在同一事务里落库
	CreateWithSubmission(request *model.RedoRequest, submission *model.Submission) error
	// SaveWithSubmission 保存裁决结果并保存提交，两者在同一事务里落库
	SaveWithSubmission(request *model.RedoRequest, submission *model.Submission) error
	FindByID(id uint) (*model.RedoRequest, error)
	FindPendingBySubmission(submissionID uint) (*model.RedoRequest, error)
	ListBySubmission(submissionID uint) ([]model.RedoRequest, error)
}

type NotificationStore interface {
	Create(notification *model.Notification) error
	FindByID(id uint) (*model.Notification, error)
	MarkRead(notification *model.Notification) error
	ListForRecipient(recipientID uint, role model.UserRole) ([]model.Notification, error)
	CountUnread(recipientID uint, role model.UserRole) (int64, error)
}

// Notifier 工作流事件出口；投递在触发操作落库之后，失败不回滚
type Notifier interface {
	Emit(event WorkflowEvent)
}
