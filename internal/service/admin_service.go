package service

import (
	"context"
	"time"

	"github.com/kachaniabdellah86/ficam-festival-app/internal/model"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/repository"
)

// DeletedActivityTitle is shown in place of an activity that was removed
// from the catalog after users completed it.
const DeletedActivityTitle = "Activité supprimée"

// UserOverview is one admin table row: a participant plus completion totals.
// swagger:model UserOverview
type UserOverview struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Role        model.UserRole `json:"role"`
	School      string         `json:"school"`
	Completions int64          `json:"completions"`
	Percent     int            `json:"percent"`
}

// FeedEntry is one line of the admin live feed.
// swagger:model FeedEntry
type FeedEntry struct {
	UserID        uint      `json:"userId"`
	UserName      string    `json:"userName"`
	ActivityID    uint      `json:"activityId"`
	ActivityTitle string    `json:"activityTitle"`
	GrantedAt     time.Time `json:"grantedAt"`
}

// LeaderboardEntry ranks a participant by validated activities.
// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      uint   `json:"userId"`
	Name        string `json:"name"`
	Completions int64  `json:"completions"`
}

// AdminService assembles the staff views: user table, live feed and
// leaderboard. Read-only over the other components' stores.
type AdminService struct {
	UserRepo       *repository.UserRepository
	ActivityRepo   *repository.ActivityRepository
	CompletionRepo *repository.CompletionRepository
}

func NewAdminService(userRepo *repository.UserRepository, activityRepo *repository.ActivityRepository, completionRepo *repository.CompletionRepository) *AdminService {
	return &AdminService{
		UserRepo:       userRepo,
		ActivityRepo:   activityRepo,
		CompletionRepo: completionRepo,
	}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]UserOverview, error) {
	users, err := s.UserRepo.ListAll()
	if err != nil {
		return nil, err
	}

	counts, err := s.CompletionRepo.CountsByUser(ctx)
	if err != nil {
		return nil, err
	}
	countByUser := make(map[uint]int64, len(counts))
	for _, c := range counts {
		countByUser[c.UserID] = c.Count
	}

	activities, err := s.ActivityRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	total := len(activities)

	overviews := make([]UserOverview, 0, len(users))
	for _, u := range users {
		done := countByUser[u.ID]
		overviews = append(overviews, UserOverview{
			ID:          u.ID,
			Name:        u.Name,
			Email:       u.Email,
			Role:        u.Role,
			School:      u.School,
			Completions: done,
			Percent:     overviewPercent(done, total),
		})
	}

	return overviews, nil
}

// overviewPercent uses the same rounding as the participant progress view,
// capped because orphaned completions can outnumber the current catalog.
func overviewPercent(done int64, total int) int {
	pct := percent(int(done), total)
	if pct > 100 {
		pct = 100
	}
	return pct
}

// RecentFeed lists the latest grants with resolved names. A completion whose
// activity was deleted is kept, titled with the placeholder.
func (s *AdminService) RecentFeed(ctx context.Context, limit int) ([]FeedEntry, error) {
	completions, err := s.CompletionRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	activities, err := s.ActivityRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	titleByID := make(map[uint]string, len(activities))
	for _, a := range activities {
		titleByID[a.ID] = a.Title
	}

	users, err := s.UserRepo.ListAll()
	if err != nil {
		return nil, err
	}
	nameByID := make(map[uint]string, len(users))
	for _, u := range users {
		nameByID[u.ID] = u.Name
	}

	feed := make([]FeedEntry, 0, len(completions))
	for _, c := range completions {
		title, ok := titleByID[c.ActivityID]
		if !ok {
			title = DeletedActivityTitle
		}
		feed = append(feed, FeedEntry{
			UserID:        c.UserID,
			UserName:      nameByID[c.UserID],
			ActivityID:    c.ActivityID,
			ActivityTitle: title,
			GrantedAt:     c.GrantedAt,
		})
	}

	return feed, nil
}

func (s *AdminService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	counts, err := s.CompletionRepo.CountsByUser(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.UserRepo.ListAll()
	if err != nil {
		return nil, err
	}
	nameByID := make(map[uint]string, len(users))
	for _, u := range users {
		nameByID[u.ID] = u.Name
	}

	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}

	entries := make([]LeaderboardEntry, 0, len(counts))
	for i, c := range counts {
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			UserID:      c.UserID,
			Name:        nameByID[c.UserID],
			Completions: c.Count,
		})
	}

	return entries, nil
}
