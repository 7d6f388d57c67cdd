// Package repository defines the persistence interfaces and their postgres and
// in-memory implementations. Services depend only on the interfaces.
package repository

import (
	"context"
	"errors"
	"time"

	"shorturl/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Users interface {
	Create(ctx context.Context, user *models.User) error
	ByID(ctx context.Context, id uint) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id uint, role models.Role) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

type Links interface {
	Create(ctx context.Context, link *models.ShortLink) error
	ByID(ctx context.Context, id string) (*models.ShortLink, error)
	ByCode(ctx context.Context, code string) (*models.ShortLink, error)
	CodeInUse(ctx context.Context, code string) (bool, error)
	ByUser(ctx context.Context, userID uint) ([]models.ShortLink, error)
	Delete(ctx context.Context, id string) error

	// IncrementClicks bumps the click counter atomically at the store. It
	// returns false when no live (non-expired) link carries the code, which
	// makes it the authoritative existence check on the redirect path.
	IncrementClicks(ctx context.Context, code string, now time.Time) (bool, error)

	Count(ctx context.Context) (int64, error)
	TotalClicks(ctx context.Context) (int64, error)
	CreatedSince(ctx context.Context, t time.Time) (int64, error)
	Top(ctx context.Context, n int) ([]models.ShortLink, error)
}

type Clicks interface {
	// Record appends a click for the link carrying code. The link is resolved
	// inside the store so the caller never needs the row on a cache hit.
	Record(ctx context.Context, code string, stat *models.ClickStat) error

	RecentByLink(ctx context.Context, linkID string, n int) ([]models.ClickStat, error)
	CountByLink(ctx context.Context, linkID string) (int64, error)
	RecordedSince(ctx context.Context, t time.Time) (int64, error)
}
