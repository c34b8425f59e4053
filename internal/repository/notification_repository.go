package repository

import (
	"errors"

	"classwork_backend/internal/model"
	"classwork_backend/internal/util"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(notification *model.Notification) error {
	return r.DB.Create(notification).Error
}

func (r *NotificationRepository) FindByID(id uint) (*model.Notification, error) {
	var notification model.Notification
	err := r.DB.First(&notification, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// MarkRead 只允许 false→true，重复标记不报错
func (r *NotificationRepository) MarkRead(notification *model.Notification) error {
	return r.DB.Model(notification).Update("is_read", true).Error
}

func (r *NotificationRepository) ListForRecipient(recipientID uint, role model.UserRole) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.DB.Where("recipient_id = ? AND recipient_role = ?", recipientID, role).
		Order("created_at desc").Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) CountUnread(recipientID uint, role model.UserRole) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Notification{}).
		Where("recipient_id = ? AND recipient_role = ? AND is_read = ?", recipientID, role, false).
		Count(&count).Error
	return count, err
}
