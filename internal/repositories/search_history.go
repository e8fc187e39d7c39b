package repositories

import (
	"context"
	"github.com/maxaizer/jobboard/internal/domain/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"time"
)

type SearchHistory struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSearchHistoryRepository(db *gorm.DB) *SearchHistory {
	return &SearchHistory{db: db, now: time.Now}
}

// Record stores the query as the user's most recent search, bumping it when it already exists.
func (repo *SearchHistory) Record(ctx context.Context, userID string, query string) error {
	now := repo.now().UTC()
	return repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "query"}},
		DoUpdates: clause.Assignments(map[string]any{
			"uses":         gorm.Expr("uses + 1"),
			"last_used_at": now,
		}),
	}).Create(&models.SearchHistory{
		UserID:     userID,
		Query:      query,
		Uses:       1,
		LastUsedAt: now,
	}).Error
}

func (repo *SearchHistory) Recent(ctx context.Context, userID string, limit int) ([]models.SearchHistory, error) {

	var searches []models.SearchHistory
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_used_at DESC").
		Limit(limit).
		Find(&searches).Error; err != nil {
		return nil, err
	}
	return searches, nil
}

func (repo *SearchHistory) RemoveOlderThan(ctx context.Context, expirationTime time.Time) (int64, error) {
	res := repo.db.WithContext(ctx).Delete(&models.SearchHistory{}, "last_used_at < ?", expirationTime.UTC())
	return res.RowsAffected, res.Error
}
