package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"shorturl/models"
)

// MemoryStore backs all three repository interfaces with mutex-guarded maps.
// It mirrors the postgres behavior closely enough for tests and local runs:
// unique constraints, cascade deletes and the atomic counter bump included.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[uint]models.User
	links      map[string]models.ShortLink
	clicks     map[string][]models.ClickStat
	nextUserID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[uint]models.User),
		links:      make(map[string]models.ShortLink),
		clicks:     make(map[string][]models.ClickStat),
		nextUserID: 1,
	}
}

func (s *MemoryStore) Users() Users   { return &memoryUsers{s} }
func (s *MemoryStore) Links() Links   { return &memoryLinks{s} }
func (s *MemoryStore) Clicks() Clicks { return &memoryClicks{s} }

func (s *MemoryStore) linkByCode(code string) (models.ShortLink, bool) {
	for _, l := range s.links {
		if l.ShortCode == code {
			return l, true
		}
	}
	return models.ShortLink{}, false
}

type memoryUsers struct {
	s *MemoryStore
}

func (r *memoryUsers) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return ErrDuplicate
		}
	}
	user.ID = r.s.nextUserID
	r.s.nextUserID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *memoryUsers) ByID(ctx context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *memoryUsers) ByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUsers) List(ctx context.Context) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *memoryUsers) UpdateRole(ctx context.Context, id uint, role models.Role) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.Role = role
	r.s.users[id] = u
	return &u, nil
}

func (r *memoryUsers) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

type memoryLinks struct {
	s *MemoryStore
}

func (r *memoryLinks) Create(ctx context.Context, link *models.ShortLink) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.linkByCode(link.ShortCode); exists {
		return ErrDuplicate
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	r.s.links[link.ID] = *link
	return nil
}

func (r *memoryLinks) ByID(ctx context.Context, id string) (*models.ShortLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.links[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (r *memoryLinks) ByCode(ctx context.Context, code string) (*models.ShortLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.linkByCode(code)
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (r *memoryLinks) CodeInUse(ctx context.Context, code string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.linkByCode(code)
	return ok, nil
}

func (r *memoryLinks) ByUser(ctx context.Context, userID uint) ([]models.ShortLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var links []models.ShortLink
	for _, l := range r.s.links {
		if l.UserID == userID {
			links = append(links, l)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].CreatedAt.After(links[j].CreatedAt) })
	return links, nil
}

func (r *memoryLinks) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.links[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.links, id)
	delete(r.s.clicks, id)
	return nil
}

func (r *memoryLinks) IncrementClicks(ctx context.Context, code string, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.linkByCode(code)
	if !ok || l.Expired(now) {
		return false, nil
	}
	l.ClickCount++
	r.s.links[l.ID] = l
	return true, nil
}

func (r *memoryLinks) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.links)), nil
}

func (r *memoryLinks) TotalClicks(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var total int64
	for _, l := range r.s.links {
		total += l.ClickCount
	}
	return total, nil
}

func (r *memoryLinks) CreatedSince(ctx context.Context, t time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, l := range r.s.links {
		if !l.CreatedAt.Before(t) {
			n++
		}
	}
	return n, nil
}

func (r *memoryLinks) Top(ctx context.Context, n int) ([]models.ShortLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	links := make([]models.ShortLink, 0, len(r.s.links))
	for _, l := range r.s.links {
		links = append(links, l)
	}
	sort.Slice(links, func(i, j int) bool { return links[i].ClickCount > links[j].ClickCount })
	if len(links) > n {
		links = links[:n]
	}
	return links, nil
}

type memoryClicks struct {
	s *MemoryStore
}

func (r *memoryClicks) Record(ctx context.Context, code string, stat *models.ClickStat) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.linkByCode(code)
	if !ok {
		return ErrNotFound
	}
	stat.ShortLinkID = l.ID
	r.s.clicks[l.ID] = append(r.s.clicks[l.ID], *stat)
	return nil
}

func (r *memoryClicks) RecentByLink(ctx context.Context, linkID string, n int) ([]models.ClickStat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stats := append([]models.ClickStat(nil), r.s.clicks[linkID]...)
	sort.Slice(stats, func(i, j int) bool { return stats[i].ClickedAt.After(stats[j].ClickedAt) })
	if len(stats) > n {
		stats = stats[:n]
	}
	return stats, nil
}

func (r *memoryClicks) CountByLink(ctx context.Context, linkID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.clicks[linkID])), nil
}

func (r *memoryClicks) RecordedSince(ctx context.Context, t time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, stats := range r.s.clicks {
		for _, s := range stats {
			if !s.ClickedAt.Before(t) {
				n++
			}
		}
	}
	return n, nil
}
