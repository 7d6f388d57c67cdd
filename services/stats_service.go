package services

import (
	"context"
	"time"

	"shorturl/repository"
)

type AdminStats struct {
	TotalURLs   int64    `json:"total_urls"`
	TotalClicks int64    `json:"total_clicks"`
	TotalUsers  int64    `json:"total_users"`
	URLsToday   int64    `json:"urls_today"`
	ClicksToday int64    `json:"clicks_today"`
	TopURLs     []TopURL `json:"top_urls"`
}

type TopURL struct {
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
	ClickCount  int64  `json:"click_count"`
}

type StatsService struct {
	users  repository.Users
	links  repository.Links
	clicks repository.Clicks
}

func NewStatsService(users repository.Users, links repository.Links, clicks repository.Clicks) *StatsService {
	return &StatsService{users: users, links: links, clicks: clicks}
}

// Admin computes the aggregate report on demand; nothing here is cached.
// "Today" means the current UTC date.
func (s *StatsService) Admin(ctx context.Context) (*AdminStats, error) {
	midnight := time.Now().UTC().Truncate(24 * time.Hour)

	totalURLs, err := s.links.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalClicks, err := s.links.TotalClicks(ctx)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	urlsToday, err := s.links.CreatedSince(ctx, midnight)
	if err != nil {
		return nil, err
	}
	clicksToday, err := s.clicks.RecordedSince(ctx, midnight)
	if err != nil {
		return nil, err
	}
	top, err := s.links.Top(ctx, 10)
	if err != nil {
		return nil, err
	}

	topURLs := make([]TopURL, 0, len(top))
	for _, l := range top {
		topURLs = append(topURLs, TopURL{
			ShortCode:   l.ShortCode,
			OriginalURL: l.OriginalURL,
			ClickCount:  l.ClickCount,
		})
	}

	return &AdminStats{
		TotalURLs:   totalURLs,
		TotalClicks: totalClicks,
		TotalUsers:  totalUsers,
		URLsToday:   urlsToday,
		ClicksToday: clicksToday,
		TopURLs:     topURLs,
	}, nil
}
