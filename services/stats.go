package services

import (
	"context"
	"fmt"

	"github.com/life-lessons/api-go/models"
	"github.com/life-lessons/api-go/store"
)

type StatsService struct {
	store store.Store
}

func NewStatsService(s store.Store) *StatsService {
	return &StatsService{store: s}
}

func (s *StatsService) Stats(ctx context.Context) (*models.Stats, error) {
	var (
		out models.Stats
		err error
	)
	if out.TotalUsers, err = s.store.Users().Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if out.PremiumUsers, err = s.store.Users().CountPremium(ctx); err != nil {
		return nil, fmt.Errorf("count premium users: %w", err)
	}
	if out.TotalLessons, err = s.store.Lessons().Count(ctx); err != nil {
		return nil, fmt.Errorf("count lessons: %w", err)
	}
	if out.TotalReports, err = s.store.Reports().Count(ctx); err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}
	return &out, nil
}
