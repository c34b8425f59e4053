package repository

import (
	"errors"

	"classwork_backend/internal/model"
	"classwork_backend/internal/util"

	"gorm.io/gorm"
)

// SubmissionRepository 处理提交记录的数据库操作
type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.Submission) error {
	return r.DB.Create(submission).Error
}

func (r *SubmissionRepository) Save(submission *model.Submission) error {
	return r.DB.Save(submission).Error
}

func (r *SubmissionRepository) FindByID(id uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.First(&submission, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByPair 按 (作业, 学生) 查找，唯一索引保证至多一条
func (r *SubmissionRepository) FindByPair(assignmentID, studentID uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).First(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepository) ListByAssignment(assignmentID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.Where("assignment_id = ?", assignmentID).Order("submitted_at desc").Find(&submissions).Error
	return submissions, err
}
