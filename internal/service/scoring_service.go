package service

import (
	"classwork_backend/internal/model"
	"classwork_backend/internal/util"
	"classwork_backend/pkg/monitoring"
)

// ScoringService 教师评分入口
type ScoringService struct {
	Subs     SubmissionStore
	Catalog  AssignmentCatalog
	Notifier Notifier
	locks    *util.KeyedMutex
}

func NewScoringService(subs SubmissionStore, catalog AssignmentCatalog, notifier Notifier, locks *util.KeyedMutex) *ScoringService {
	return &ScoringService{Subs: subs, Catalog: catalog, Notifier: notifier, locks: locks}
}

// Grade 评分并置为 reviewed
// 只接受 submitted / redo_approved 状态；已批改的提交须走重做流程才能改分
func (s *ScoringService) Grade(submissionID uint, score int, comment string) (*model.Submission, error) {
	if score < util.MinScore || score > util.MaxScore {
		return nil, util.ErrInvalidScore
	}

	submission, err := s.Subs.FindByID(submissionID)
	if err != nil {
		return nil, err
	}

	key := submissionKey(submission.AssignmentID, submission.StudentID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	// 锁内重读，防止与并发的重做裁决丢失更新
	submission, err = s.Subs.FindByID(submissionID)
	if err != nil {
		return nil, err
	}
	if !submission.Gradable() {
		return nil, util.ErrNotGradable
	}

	submission.Score = &score
	submission.Comment = &comment
	submission.State = model.StateReviewed
	if err := s.Subs.Save(submission); err != nil {
		return nil, err
	}

	monitoring.GradeCounter.Inc()

	title := s.assignmentTitle(submission.AssignmentID)
	s.Notifier.Emit(WorkflowEvent{
		Kind:            model.NotifyGraded,
		RecipientID:     submission.StudentID,
		RecipientRole:   model.Student,
		AssignmentTitle: title,
		Score:           score,
		Comment:         comment,
	})

	return submission, nil
}

func (s *ScoringService) assignmentTitle(assignmentID uint) string {
	assignment, err := s.Catalog.FindByID(assignmentID)
	if err != nil {
		return "未知作业"
	}
	return assignment.Title
}
