package service

import (
	"strings"
	"time"

	"classwork_backend/internal/model"
	"classwork_backend/internal/util"
	"classwork_backend/pkg/monitoring"
)

// RedoService 重做申请的创建与裁决，负责配额与单一 pending 约束
type RedoService struct {
	Subs     SubmissionStore
	Redos    RedoRequestStore
	Catalog  AssignmentCatalog
	Notifier Notifier
	locks    *util.KeyedMutex
}

func NewRedoService(subs SubmissionStore, redos RedoRequestStore, catalog AssignmentCatalog, notifier Notifier, locks *util.KeyedMutex) *RedoService {
	return &RedoService{Subs: subs, Redos: redos, Catalog: catalog, Notifier: notifier, locks: locks}
}

// RequestRedo 学生对已批改的提交发起重做申请
// 配额先于状态检查：次数用尽后无论提交处于什么状态都直接拒绝
func (s *RedoService) RequestRedo(submissionID, studentID uint, studentName, reason string) (*model.RedoRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, util.ErrEmptyReason
	}

	submission, err := s.Subs.FindByID(submissionID)
	if err != nil {
		return nil, err
	}
	if submission.StudentID != studentID {
		return nil, util.ErrPermissionDenied
	}

	key := submissionKey(submission.AssignmentID, submission.StudentID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	submission, err = s.Subs.FindByID(submissionID)
	if err != nil {
		return nil, err
	}

	if submission.RedoCount >= util.MaxRedoCount {
		return nil, util.ErrRedoQuotaExceeded
	}
	if submission.State != model.StateReviewed {
		return nil, util.ErrNotReviewed
	}
	pending, err := s.Redos.FindPendingBySubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, util.ErrRedoPendingExists
	}

	// 收件的教师在作业目录上，先解析再落库，保证每条申请都有对应通知
	assignment, err := s.Catalog.FindByID(submission.AssignmentID)
	if err != nil {
		return nil, err
	}

	request := &model.RedoRequest{
		SubmissionID: submissionID,
		StudentID:    studentID,
		Reason:       reason,
		Decision:     model.RedoPending,
	}
	submission.State = model.StateRedoPending
	if err := s.Redos.CreateWithSubmission(request, submission); err != nil {
		return nil, err
	}

	s.Notifier.Emit(WorkflowEvent{
		Kind:            model.NotifyRedoRequested,
		RecipientID:     assignment.TeacherID,
		RecipientRole:   model.Teacher,
		AssignmentTitle: assignment.Title,
		StudentName:     studentName,
		Reason:          reason,
	})

	return request, nil
}

// Decide 教师裁决：通过则解锁重交并计一次配额，驳回则回到 reviewed，原成绩保留
func (s *RedoService) Decide(requestID uint, approve bool, teacherComment string) (*model.RedoRequest, error) {
	request, err := s.Redos.FindByID(requestID)
	if err != nil {
		return nil, err
	}

	submission, err := s.Subs.FindByID(request.SubmissionID)
	if err != nil {
		return nil, err
	}

	key := submissionKey(submission.AssignmentID, submission.StudentID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	request, err = s.Redos.FindByID(requestID)
	if err != nil {
		return nil, err
	}
	if request.Decision != model.RedoPending {
		return nil, util.ErrRedoAlreadyDecided
	}
	submission, err = s.Subs.FindByID(request.SubmissionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request.TeacherComment = teacherComment
	request.DecidedAt = &now

	kind := model.NotifyRedoRejected
	if approve {
		request.Decision = model.RedoApproved
		submission.State = model.StateRedoApproved
		submission.Score = nil
		submission.Comment = nil
		submission.RedoCount++
		kind = model.NotifyRedoApproved
	} else {
		request.Decision = model.RedoRejected
		submission.State = model.StateReviewed
	}

	if err := s.Redos.SaveWithSubmission(request, submission); err != nil {
		return nil, err
	}

	monitoring.RedoDecisionCounter.WithLabelValues(string(request.Decision)).Inc()

	title := "未知作业"
	if assignment, err := s.Catalog.FindByID(submission.AssignmentID); err == nil {
		title = assignment.Title
	}
	s.Notifier.Emit(WorkflowEvent{
		Kind:            kind,
		RecipientID:     submission.StudentID,
		RecipientRole:   model.Student,
		AssignmentTitle: title,
		Comment:         teacherComment,
	})

	return request, nil
}

// History 某个提交的全部重做申请，教师端查看
func (s *RedoService) History(submissionID uint) ([]model.RedoRequest, error) {
	if _, err := s.Subs.FindByID(submissionID); err != nil {
		return nil, err
	}
	return s.Redos.ListBySubmission(submissionID)
}
