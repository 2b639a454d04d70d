package domain

import (
	"context"
	"time"
)

// Task 归属唯一 owner；owner 不可转移，删除用户时级联删除其任务（外键约束）
type Task struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text;not null"`
	Done        bool   `gorm:"not null;default:false"`
	OwnerID     uint   `gorm:"index;not null"`
	Owner       *User  `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Task) TableName() string { return "tasks" }

// TaskRepository 所有读写都带 ownerID 过滤：
// 非本人 id 与不存在的 id 行为一致（not found）
type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, ownerID, id uint) (Task, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, ownerID, id uint) error
}
