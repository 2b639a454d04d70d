package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"personal-apis/internal/domain"
	"personal-apis/internal/errs"
)

// TaskRepo 所有查询都限定 owner_id，越权 id 等同不存在
type TaskRepo struct{ db *gorm.DB }

func NewTaskRepo(db *gorm.DB) *TaskRepo { return &TaskRepo{db: db} }

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TaskRepo) GetByID(ctx context.Context, ownerID, id uint) (domain.Task, error) {
	var t domain.Task
	err := r.db.WithContext(ctx).
		First(&t, "id = ? AND owner_id = ?", id, ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Task{}, errs.ErrNotFound
	}
	return t, err
}

func (r *TaskRepo) ListByOwner(ctx context.Context, ownerID uint) ([]domain.Task, error) {
	var list []domain.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id").
		Find(&list).Error
	return list, err
}

// Update 只写可变字段；owner/id 在 handler 侧已固定，不从 payload 进来。
// 不检查 RowsAffected：MySQL 对无变化的 UPDATE 返回 0 行
func (r *TaskRepo) Update(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ? AND owner_id = ?", t.ID, t.OwnerID).
		Updates(map[string]any{
			"title":       t.Title,
			"description": t.Description,
			"done":        t.Done,
		}).Error
}

func (r *TaskRepo) Delete(ctx context.Context, ownerID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
