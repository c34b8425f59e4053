package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"classwork_backend/internal/model"
	"classwork_backend/internal/util"
	"classwork_backend/pkg/monitoring"
)

// SubmissionService 提交记录的唯一写入口，负责截止时间与重交规则
type SubmissionService struct {
	Subs     SubmissionStore
	Catalog  AssignmentCatalog
	Notifier Notifier
	locks    *util.KeyedMutex
}

func NewSubmissionService(subs SubmissionStore, catalog AssignmentCatalog, notifier Notifier, locks *util.KeyedMutex) *SubmissionService {
	return &SubmissionService{Subs: subs, Catalog: catalog, Notifier: notifier, locks: locks}
}

// submissionKey 互斥锁键：同一 (作业, 学生) 上的变更串行执行
func submissionKey(assignmentID, studentID uint) string {
	return fmt.Sprintf("submission:%d:%d", assignmentID, studentID)
}

type SubmitRequest struct {
	Kind        model.PayloadKind `json:"kind" binding:"required"`
	Files       map[string]string `json:"files"`
	Text        string            `json:"text"`
	Attachments []string          `json:"attachments"`
	StudentName string            `json:"-"`
}

func (r *SubmitRequest) validate() error {
	switch r.Kind {
	case model.PayloadCode:
		if len(r.Files) == 0 {
			return util.ErrEmptyPayload
		}
	case model.PayloadDocument:
		if strings.TrimSpace(r.Text) == "" && len(r.Attachments) == 0 {
			return util.ErrEmptyPayload
		}
	default:
		return util.ErrBadPayloadKind
	}
	return nil
}

// Submit 首次提交受截止时间约束；重交只允许在重做获批状态下进行，不受截止时间约束
func (s *SubmissionService) Submit(assignmentID, studentID uint, req SubmitRequest) (*model.Submission, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	assignment, err := s.Catalog.FindByID(assignmentID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(model.SubmissionPayload{
		Kind:        req.Kind,
		Files:       req.Files,
		Text:        req.Text,
		Attachments: req.Attachments,
	})
	if err != nil {
		return nil, err
	}

	key := submissionKey(assignmentID, studentID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	now := time.Now()
	submission, err := s.Subs.FindByPair(assignmentID, studentID)
	switch {
	case err == util.ErrSubmissionNotFound:
		if now.After(assignment.Deadline) {
			return nil, util.ErrDeadlinePassed
		}
		submission = &model.Submission{
			AssignmentID: assignmentID,
			StudentID:    studentID,
			PayloadKind:  req.Kind,
			Payload:      payload,
			SubmittedAt:  now,
			State:        model.StateSubmitted,
		}
		if err := s.Subs.Create(submission); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case submission.State == model.StateRedoApproved:
		// 获批后的重交，覆盖内容并清掉上一轮成绩
		submission.PayloadKind = req.Kind
		submission.Payload = payload
		submission.SubmittedAt = now
		submission.Score = nil
		submission.Comment = nil
		submission.State = model.StateSubmitted
		if err := s.Subs.Save(submission); err != nil {
			return nil, err
		}
	default:
		return nil, util.ErrSubmissionExists
	}

	monitoring.SubmissionCounter.Inc()
	s.Notifier.Emit(WorkflowEvent{
		Kind:            model.NotifySubmitted,
		RecipientID:     assignment.TeacherID,
		RecipientRole:   model.Teacher,
		AssignmentTitle: assignment.Title,
		StudentName:     req.StudentName,
	})

	return submission, nil
}

func (s *SubmissionService) Get(assignmentID, studentID uint) (*model.Submission, error) {
	return s.Subs.FindByPair(assignmentID, studentID)
}

func (s *SubmissionService) ListByAssignment(assignmentID uint) ([]model.Submission, error) {
	exists, err := s.Catalog.Exists(assignmentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, util.ErrAssignmentNotFound
	}
	return s.Subs.ListByAssignment(assignmentID)
}
