package repository

import (
	"errors"

	"classwork_backend/internal/model"
	"classwork_backend/internal/util"

	"gorm.io/gorm"
)

// AssignmentRepository 作业目录的只读访问，数据由课程系统写入
type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.DB.First(&assignment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssignmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Assignment{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
