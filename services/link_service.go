package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"shorturl/cache"
	"shorturl/models"
	"shorturl/repository"
)

// createRetries bounds re-allocation when two concurrent creates draw the
// same candidate code and the store's unique constraint rejects the loser.
const createRetries = 3

type LinkService struct {
	links       repository.Links
	clicks      repository.Clicks
	cache       cache.Cache
	codeLength  int
	maxAttempts int
}

func NewLinkService(links repository.Links, clicks repository.Clicks, c cache.Cache, codeLength, maxAttempts int) *LinkService {
	return &LinkService{
		links:       links,
		clicks:      clicks,
		cache:       c,
		codeLength:  codeLength,
		maxAttempts: maxAttempts,
	}
}

// Create allocates a unique code, persists the link for owner and primes the
// redirect cache with the new mapping.
func (s *LinkService) Create(ctx context.Context, owner *models.User, originalURL string) (*models.ShortLink, error) {
	originalURL = strings.TrimSpace(originalURL)
	if originalURL == "" {
		return nil, fmt.Errorf("%w: original_url is required", ErrValidation)
	}

	for attempt := 0; attempt < createRetries; attempt++ {
		code, err := allocateCode(ctx, s.links, s.codeLength, s.maxAttempts)
		if err != nil {
			return nil, err
		}

		link := &models.ShortLink{
			ID:          uuid.NewString(),
			UserID:      owner.ID,
			OriginalURL: originalURL,
			ShortCode:   code,
			CreatedAt:   time.Now(),
		}
		if err := s.links.Create(ctx, link); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return nil, err
		}

		if err := s.cache.Set(ctx, code, originalURL); err != nil {
			log.Printf("Failed to prime cache for %s: %v", code, err)
		}
		return link, nil
	}
	return nil, ErrCodeSpaceExhausted
}

// Resolve serves the redirect path: cache-aside URL lookup, then the
// accounting writes, which run on every successful resolution regardless of
// where the URL came from. The counter bump doubles as the authoritative
// existence check, so a stale cache entry can never resurrect a deleted or
// expired link.
func (s *LinkService) Resolve(ctx context.Context, code, ip, userAgent string) (string, error) {
	now := time.Now()

	originalURL, err := s.cache.Get(ctx, code)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Printf("Cache lookup for %s: %v", code, err)
		}
		link, err := s.links.ByCode(ctx, code)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", ErrNotFound
			}
			return "", err
		}
		if link.Expired(now) {
			return "", ErrNotFound
		}
		originalURL = link.OriginalURL

		if err := s.cache.Set(ctx, code, originalURL); err != nil {
			log.Printf("Failed to cache %s: %v", code, err)
		}
	}

	counted, err := s.links.IncrementClicks(ctx, code, now)
	if err != nil {
		return "", err
	}
	if !counted {
		// The cache was ahead of the store; drop the stale entry.
		_ = s.cache.Del(ctx, code)
		return "", ErrNotFound
	}

	stat := &models.ClickStat{
		ID:        uuid.NewString(),
		IPAddress: ip,
		UserAgent: userAgent,
		ClickedAt: now,
	}
	if err := s.clicks.Record(ctx, code, stat); err != nil {
		// The redirect already counted; losing one stat row is not worth a 500.
		log.Printf("Failed to record click for %s: %v", code, err)
	}

	return originalURL, nil
}

// ListByOwner returns the caller's links, newest first.
func (s *LinkService) ListByOwner(ctx context.Context, caller *models.User) ([]models.ShortLink, error) {
	return s.links.ByUser(ctx, caller.ID)
}

func (s *LinkService) Get(ctx context.Context, caller *models.User, id string) (*models.ShortLink, error) {
	link, err := s.links.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := authorize(caller, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *LinkService) Delete(ctx context.Context, caller *models.User, id string) error {
	link, err := s.links.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := authorize(caller, link); err != nil {
		return err
	}
	if err := s.links.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	_ = s.cache.Del(ctx, link.ShortCode)
	return nil
}

// Stats returns the link identified by code plus its 10 most recent clicks.
func (s *LinkService) Stats(ctx context.Context, caller *models.User, code string) (*models.ShortLink, []models.ClickStat, error) {
	link, err := s.links.ByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if err := authorize(caller, link); err != nil {
		return nil, nil, err
	}

	recent, err := s.clicks.RecentByLink(ctx, link.ID, 10)
	if err != nil {
		return nil, nil, err
	}
	return link, recent, nil
}

// authorize enforces the owner-or-admin rule shared by detail, delete and
// stats access.
func authorize(caller *models.User, link *models.ShortLink) error {
	if link.UserID != caller.ID && !caller.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
