package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"shorturl/models"
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

type gormUsers struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) Users {
	return &gormUsers{db: db}
}

func (r *gormUsers) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *gormUsers) ByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUsers) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUsers) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, translate(err)
}

func (r *gormUsers) UpdateRole(ctx context.Context, id uint, role models.Role) (*models.User, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.ByID(ctx, id)
}

func (r *gormUsers) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, translate(err)
}

type gormLinks struct {
	db *gorm.DB
}

func NewLinks(db *gorm.DB) Links {
	return &gormLinks{db: db}
}

func (r *gormLinks) Create(ctx context.Context, link *models.ShortLink) error {
	return translate(r.db.WithContext(ctx).Create(link).Error)
}

func (r *gormLinks) ByID(ctx context.Context, id string) (*models.ShortLink, error) {
	var link models.ShortLink
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&link).Error; err != nil {
		return nil, translate(err)
	}
	return &link, nil
}

func (r *gormLinks) ByCode(ctx context.Context, code string) (*models.ShortLink, error) {
	var link models.ShortLink
	if err := r.db.WithContext(ctx).Where("short_code = ?", code).First(&link).Error; err != nil {
		return nil, translate(err)
	}
	return &link, nil
}

func (r *gormLinks) CodeInUse(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ShortLink{}).Where("short_code = ?", code).Count(&n).Error
	return n > 0, translate(err)
}

func (r *gormLinks) ByUser(ctx context.Context, userID uint) ([]models.ShortLink, error) {
	var links []models.ShortLink
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&links).Error
	return links, translate(err)
}

func (r *gormLinks) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ShortLink{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormLinks) IncrementClicks(ctx context.Context, code string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.ShortLink{}).
		Where("short_code = ? AND (expires_at IS NULL OR expires_at > ?)", code, now).
		UpdateColumn("click_count", gorm.Expr("click_count + ?", 1))
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *gormLinks) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ShortLink{}).Count(&n).Error
	return n, translate(err)
}

func (r *gormLinks) TotalClicks(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.ShortLink{}).
		Select("COALESCE(SUM(click_count), 0)").Scan(&total).Error
	return total, translate(err)
}

func (r *gormLinks) CreatedSince(ctx context.Context, t time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ShortLink{}).Where("created_at >= ?", t).Count(&n).Error
	return n, translate(err)
}

func (r *gormLinks) Top(ctx context.Context, n int) ([]models.ShortLink, error) {
	var links []models.ShortLink
	err := r.db.WithContext(ctx).Order("click_count desc").Limit(n).Find(&links).Error
	return links, translate(err)
}

type gormClicks struct {
	db *gorm.DB
}

func NewClicks(db *gorm.DB) Clicks {
	return &gormClicks{db: db}
}

func (r *gormClicks) Record(ctx context.Context, code string, stat *models.ClickStat) error {
	// Resolve the link inside the insert so the redirect path never needs the
	// link row, only the code.
	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO click_stats (id, short_link_id, ip_address, user_agent, clicked_at)
		 SELECT ?, id, ?, ?, ? FROM short_links WHERE short_code = ?`,
		stat.ID, stat.IPAddress, stat.UserAgent, stat.ClickedAt, code,
	)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormClicks) RecentByLink(ctx context.Context, linkID string, n int) ([]models.ClickStat, error) {
	var stats []models.ClickStat
	err := r.db.WithContext(ctx).Where("short_link_id = ?", linkID).
		Order("clicked_at desc").Limit(n).Find(&stats).Error
	return stats, translate(err)
}

func (r *gormClicks) CountByLink(ctx context.Context, linkID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ClickStat{}).Where("short_link_id = ?", linkID).Count(&n).Error
	return n, translate(err)
}

func (r *gormClicks) RecordedSince(ctx context.Context, t time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ClickStat{}).Where("clicked_at >= ?", t).Count(&n).Error
	return n, translate(err)
}
