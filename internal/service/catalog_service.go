package service

import (
	"context"
	"strings"

	"github.com/kachaniabdellah86/ficam-festival-app/internal/model"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/repository"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/util"
)

// ActivityRequest carries the admin form for creating or editing a catalog
// entry.
// swagger:model ActivityRequest
type ActivityRequest struct {
	Code           string `json:"code" binding:"required"`
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	Category       string `json:"category" binding:"required,oneof=matin apres-midi soir"`
	IsMandatory    bool   `json:"isMandatory"`
	Question       string `json:"question"`
	ExpectedAnswer string `json:"expectedAnswer"`
}

// CatalogService owns administrative catalog mutation. Code uniqueness is
// enforced by the database index; this layer guards the question/answer
// pairing invariant.
type CatalogService struct {
	ActivityRepo *repository.ActivityRepository
}

func NewCatalogService(activityRepo *repository.ActivityRepository) *CatalogService {
	return &CatalogService{ActivityRepo: activityRepo}
}

func (s *CatalogService) ListActivities(ctx context.Context) ([]model.Activity, error) {
	return s.ActivityRepo.ListAll(ctx)
}

func (s *CatalogService) CreateActivity(ctx context.Context, req ActivityRequest) (*model.Activity, error) {
	activity, err := activityFromRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.ActivityRepo.Create(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *CatalogService) UpdateActivity(ctx context.Context, id uint, req ActivityRequest) (*model.Activity, error) {
	existing, err := s.ActivityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := activityFromRequest(req)
	if err != nil {
		return nil, err
	}

	existing.Code = updated.Code
	existing.Title = updated.Title
	existing.Description = updated.Description
	existing.Category = updated.Category
	existing.IsMandatory = updated.IsMandatory
	existing.Question = updated.Question
	existing.ExpectedAnswer = updated.ExpectedAnswer

	if err := s.ActivityRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteActivity removes the entry permanently. Completions that reference
// it stay in the ledger and are shown with a placeholder by readers.
func (s *CatalogService) DeleteActivity(ctx context.Context, id uint) error {
	if _, err := s.ActivityRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.ActivityRepo.Delete(ctx, id)
}

func activityFromRequest(req ActivityRequest) (*model.Activity, error) {
	question := strings.TrimSpace(req.Question)
	expected := strings.TrimSpace(req.ExpectedAnswer)

	// Either both or neither: an activity cannot ask a question it cannot
	// check, nor hold an answer nobody is asked for.
	if (question == "") != (expected == "") {
		return nil, util.ErrQuestionIncomplete
	}

	return &model.Activity{
		Code:           strings.TrimSpace(req.Code),
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Category:       model.ActivityCategory(req.Category),
		IsMandatory:    req.IsMandatory,
		Question:       question,
		ExpectedAnswer: expected,
	}, nil
}
