package model

import "time"

// Assignment 作业目录条目，由外部的课程系统维护，本服务只读
// swagger:model Assignment
type Assignment struct {
	BaseModel
	Title     string    `gorm:"size:255;not null" json:"title"`
	TeacherID uint      `gorm:"index;not null" json:"teacherId"`
	GroupID   uint      `gorm:"index" json:"groupId"`
	Deadline  time.Time `json:"deadline"`
}

func (Assignment) TableName() string {
	return "assignments"
}
