package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kachaniabdellah86/ficam-festival-app/internal/model"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/util"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

// FindByCode does an exact, case-sensitive lookup against the unique index
// on code. Case sensitivity rests on the column's binary collation; the
// predicate itself is a plain equality.
func (r *ActivityRepository) FindByCode(ctx context.Context, code string) (*model.Activity, error) {
	var activity model.Activity
	err := r.DB.WithContext(ctx).Where("code = ?", code).First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrActivityNotFound
		}
		return nil, err
	}
	return &activity, nil
}

func (r *ActivityRepository) FindByID(ctx context.Context, id uint) (*model.Activity, error) {
	var activity model.Activity
	err := r.DB.WithContext(ctx).First(&activity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrActivityNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// ListAll returns the full catalog in insertion order.
func (r *ActivityRepository) ListAll(ctx context.Context) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&activities).Error
	return activities, err
}

func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	if err := r.DB.WithContext(ctx).Create(activity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return util.ErrCodeTaken
		}
		return err
	}
	return nil
}

func (r *ActivityRepository) Update(ctx context.Context, activity *model.Activity) error {
	if err := r.DB.WithContext(ctx).Save(activity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return util.ErrCodeTaken
		}
		return err
	}
	return nil
}

// Delete removes the activity permanently. Existing completions keep their
// activity_id and are rendered with a placeholder by readers; the hard
// delete also frees the code for reuse.
func (r *ActivityRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Unscoped().Delete(&model.Activity{}, id).Error
}
