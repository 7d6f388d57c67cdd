package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shorturl/cache"
	"shorturl/models"
	"shorturl/repository"
)

// countingLinks counts ByCode calls so tests can prove the cache-hit path
// skips the store lookup.
type countingLinks struct {
	repository.Links
	byCodeCalls atomic.Int32
}

func (c *countingLinks) ByCode(ctx context.Context, code string) (*models.ShortLink, error) {
	c.byCodeCalls.Add(1)
	return c.Links.ByCode(ctx, code)
}

type linkFixture struct {
	svc   *LinkService
	store *repository.MemoryStore
	links *countingLinks
	cache cache.Cache
	owner *models.User
	other *models.User
	admin *models.User
}

func newLinkFixture(t *testing.T) *linkFixture {
	t.Helper()
	store := repository.NewMemoryStore()
	links := &countingLinks{Links: store.Links()}
	c := cache.NewMemory(time.Hour)
	svc := NewLinkService(links, store.Clicks(), c, 8, 10)

	f := &linkFixture{svc: svc, store: store, links: links, cache: c}
	f.owner = f.addUser(t, "owner@example.com", models.RoleUser)
	f.other = f.addUser(t, "other@example.com", models.RoleUser)
	f.admin = f.addUser(t, "admin@example.com", models.RoleAdmin)
	return f
}

func (f *linkFixture) addUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Username: email, Email: email, Role: role}
	require.NoError(t, u.SetPassword("secret123"))
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func TestCreate_AllocatesUniqueCodeAndPrimesCache(t *testing.T) {
	f := newLinkFixture(t)
	ctx := context.Background()

	link, err := f.svc.Create(ctx, f.owner, "https://example.com")
	require.NoError(t, err)
	assert.Len(t, link.ShortCode, 8)
	assert.Equal(t, f.owner.ID, link.UserID)
	assert.EqualValues(t, 0, link.ClickCount)

	// Cache primed: resolve must not hit the store for the URL.
	url, err := f.cache.Get(ctx, link.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", url)
}

func TestCreate_RejectsEmptyURL(t *testing.T) {
	f := newLinkFixture(t)

	_, err := f.svc.Create(context.Background(), f.owner, "   ")
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreate_ConcurrentCodesAreUnique(t *testing.T) {
	f := newLinkFixture(t)
	ctx := context.Background()

	const n = 50
	codes := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			link, err := f.svc.Create(ctx, f.owner, "https://example.com")
			if err == nil {
				codes <- link.ShortCode
			}
		}()
	}
	wg.Wait()
	close(codes)

	seen := make(map[string]bool)
	for code := range codes {
		assert.False(t, seen[code], "duplicate code %q", code)
		seen[code] = true
	}
	assert.Len(t, seen, n)
}

func TestResolve_CountsEveryRedirect(t *testing.T) {
	f := newLinkFixture(t)
	ctx := context.Background()

	link, err := f.svc.Create(ctx, f.owner, "https://example.com")
	require.NoError(t, err)

	const k = 5
	for i := 0; i < k; i++ {
		url, err := f.svc.Resolve(ctx, link.ShortCode, "203.0.113.7", "test-agent")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", url)
	}

	stored, err := f.store.Links().ByCode(ctx, link.ShortCode)
	require.NoError(t, err)
	assert.EqualValues(t, k, stored.ClickCount)

	count, err := f.store.Clicks().CountByLink(ctx, link.ID)
	require.NoError(t, err)
	assert.EqualValues(t, k, count)

	// The cache was primed at create time, so no resolve needed ByCode.
	assert.EqualValues(t, 0, f.links.byCodeCalls.Load())
}

func TestResolve_CacheMissFallsBackToStore(t *testing.T) {
	f := newLinkFixture(t)
	ctx := context.Background()

	link, err := f.svc.Create(ctx, f.owner, "https://example.com")
	require.NoError(t, err)
	require.NoError(t, f.cache.Del(ctx, link.ShortCode))

	url, err := f.svc.Resolve(ctx, link.ShortCode, "", "")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", url)
	assert.EqualValues(t, 1, f.links.byCodeCalls.Load())

	// The miss repopulated the cache; the next resolve skips the store.
	_, err = f.svc.Resolve(ctx, link.ShortCode, "", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.links.byCodeCalls.Load())
}

func TestResolve_UnknownCodeHasNoSideEffects(t *testing.T) {
	f := newLinkFixture(t)
	ctx := context.Background()

	_, err := f.svc.Resolve(ctx, "nosuchcd", "", "")
	require.ErrorIs(t, err, ErrNotFound)

	total, err := f.store.Links().TotalClicks(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	recorded, err := f.store.Clicks().RecordedSince(ctx, time.Time{})
	require.NoError(t, err)
	assert.Zero(t, recorded)
}

func TestResolve_StaleCacheEntryDoesNotResurrectDeletedLink(t *testing.T) {
	f := newLinkFixture(t)
	ctx := context.Background()

	link, err := f.svc.Create(ctx, f.owner, "https://example.com")
	require.NoError(t, err)

	// Delete straight through the repository so the cache keeps its entry.
	require.NoError(t, f.store.Links().Delete(ctx, link.ID))
	_, err = f.cache.Get(ctx, link.ShortCode)
	require.NoError(t, err, "precondition: entry still cached")

	_, err = f.svc.Resolve(ctx, link.ShortCode, "", "")
	require.ErrorIs(t, err, ErrNotFound)

	// And the stale entry is gone afterwards.
	_, err = f.cache.Get(ctx, link.ShortCode)
	require.ErrorIs(t, err, cache.ErrMiss)
}

func TestResolve_ExpiredLinkIsNotFound(t *testing.T) {
	f := newLinkFixture(t)
	ctx := context.Background()

	link, err := f.svc.Create(ctx, f.owner, "https://example.com")
	require.NoError(t, err)

	// Expire it behind the service's back, then drop the cache entry so the
	// store path runs.
	stored, err := f.store.Links().ByID(ctx, link.ID)
	require.NoError(t, err)
	past := time.Now().Add(-time.Hour)
	stored.ExpiresAt = &past
	require.NoError(t, f.store.Links().Delete(ctx, link.ID))
	require.NoError(t, f.store.Links().Create(ctx, stored))
	require.NoError(t, f.cache.Del(ctx, link.ShortCode))

	_, err = f.svc.Resolve(ctx, link.ShortCode, "", "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_ConcurrentRedirectsAllCounted(t *testing.T) {
	f := newLinkFixture(t)
	ctx := context.Background()

	link, err := f.svc.Create(ctx, f.owner, "https://example.com")
	require.NoError(t, err)

	const k = 100
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.Resolve(ctx, link.ShortCode, "", "")
		}()
	}
	wg.Wait()

	stored, err := f.store.Links().ByCode(ctx, link.ShortCode)
	require.NoError(t, err)
	assert.EqualValues(t, k, stored.ClickCount)
}

func TestGetDelete_OwnerOrAdminOnly(t *testing.T) {
	f := newLinkFixture(t)
	ctx := context.Background()

	link, err := f.svc.Create(ctx, f.owner, "https://example.com")
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.other, link.ID)
	require.ErrorIs(t, err, ErrForbidden)

	got, err := f.svc.Get(ctx, f.admin, link.ID)
	require.NoError(t, err)
	assert.Equal(t, link.ID, got.ID)

	err = f.svc.Delete(ctx, f.other, link.ID)
	require.ErrorIs(t, err, ErrForbidden)

	err = f.svc.Delete(ctx, f.owner, link.ID)
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.owner, link.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStats_ReturnsTenMostRecentClicks(t *testing.T) {
	f := newLinkFixture(t)
	ctx := context.Background()

	link, err := f.svc.Create(ctx, f.owner, "https://example.com")
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		stat := &models.ClickStat{
			ID:        time.Now().Format("150405.000000") + string(rune('a'+i)),
			ClickedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, f.store.Clicks().Record(ctx, link.ShortCode, stat))
	}

	got, recent, err := f.svc.Stats(ctx, f.owner, link.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, link.ID, got.ID)
	require.Len(t, recent, 10)
	for i := 1; i < len(recent); i++ {
		assert.False(t, recent[i].ClickedAt.After(recent[i-1].ClickedAt), "recent clicks not in descending order")
	}

	_, _, err = f.svc.Stats(ctx, f.other, link.ShortCode)
	require.ErrorIs(t, err, ErrForbidden)

	_, _, err = f.svc.Stats(ctx, f.admin, link.ShortCode)
	require.NoError(t, err)

	_, _, err = f.svc.Stats(ctx, f.owner, "nosuchcd")
	require.ErrorIs(t, err, ErrNotFound)
}
