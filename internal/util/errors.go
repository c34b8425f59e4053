package util

import "errors"

// 工作流错误分四类：参数校验、配额、状态冲突、不存在
// controller 层通过 WorkflowError 统一映射为 HTTP 状态码
var (
	// 校验类
	ErrInvalidScore    = errors.New("score must be between 0 and 100")
	ErrEmptyReason     = errors.New("redo reason is required")
	ErrEmptyPayload    = errors.New("submission payload is empty")
	ErrBadPayloadKind  = errors.New("payload kind must be code or document")
	ErrEmptyAttachment = errors.New("attachment file is required")

	// 配额类
	ErrRedoQuotaExceeded = errors.New("redo quota exceeded (max 3)")

	// 冲突类
	ErrSubmissionExists   = errors.New("submission already exists for this assignment")
	ErrDeadlinePassed     = errors.New("assignment deadline has passed")
	ErrNotGradable        = errors.New("submission is not awaiting grading")
	ErrNotReviewed        = errors.New("submission is not in reviewed state")
	ErrRedoPendingExists  = errors.New("a pending redo request already exists")
	ErrRedoAlreadyDecided = errors.New("redo request already decided")

	// 不存在类
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrRedoRequestNotFound  = errors.New("redo request not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrPermissionDenied = errors.New("permission denied")
)

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidScore) ||
		errors.Is(err, ErrEmptyReason) ||
		errors.Is(err, ErrEmptyPayload) ||
		errors.Is(err, ErrBadPayloadKind) ||
		errors.Is(err, ErrEmptyAttachment)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrSubmissionExists) ||
		errors.Is(err, ErrDeadlinePassed) ||
		errors.Is(err, ErrNotGradable) ||
		errors.Is(err, ErrNotReviewed) ||
		errors.Is(err, ErrRedoPendingExists) ||
		errors.Is(err, ErrRedoAlreadyDecided)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrSubmissionNotFound) ||
		errors.Is(err, ErrRedoRequestNotFound) ||
		errors.Is(err, ErrNotificationNotFound)
}
