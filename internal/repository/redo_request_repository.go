package repository

import (
	"errors"

	"classwork_backend/internal/model"
	"classwork_backend/internal/util"

	"gorm.io/gorm"
)

// RedoRequestRepository 处理重做申请的数据库操作
type RedoRequestRepository struct {
	DB *gorm.DB
}

func NewRedoRequestRepository(db *gorm.DB) *RedoRequestRepository {
	return &RedoRequestRepository{DB: db}
}

// CreateWithSubmission 申请和提交的状态变更必须同生共死，放在一个事务里
func (r *RedoRequestRepository) CreateWithSubmission(request *model.RedoRequest, submission *model.Submission) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(request).Error; err != nil {
			return err
		}
		return tx.Save(submission).Error
	})
}

// SaveWithSubmission 裁决写入与提交状态流转放在一个事务里
func (r *RedoRequestRepository) SaveWithSubmission(request *model.RedoRequest, submission *model.Submission) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(request).Error; err != nil {
			return err
		}
		return tx.Save(submission).Error
	})
}

func (r *RedoRequestRepository) FindByID(id uint) (*model.RedoRequest, error) {
	var request model.RedoRequest
	err := r.DB.First(&request, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrRedoRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// FindPendingBySubmission 查找提交上未裁决的申请，没有则返回 nil
func (r *RedoRequestRepository) FindPendingBySubmission(submissionID uint) (*model.RedoRequest, error) {
	var request model.RedoRequest
	err := r.DB.Where("submission_id = ? AND decision = ?", submissionID, model.RedoPending).First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ListBySubmission 重做历史，旧的在前
func (r *RedoRequestRepository) ListBySubmission(submissionID uint) ([]model.RedoRequest, error) {
	var requests []model.RedoRequest
	err := r.DB.Where("submission_id = ?", submissionID).Order("created_at asc").Find(&requests).Error
	return requests, err
}
