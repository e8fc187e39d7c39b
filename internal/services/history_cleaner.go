package services

import (
	"context"
	"github.com/maxaizer/jobboard/internal/logger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"time"
)

type HistoryCleanupRepository interface {
	RemoveOlderThan(ctx context.Context, expirationTime time.Time) (int64, error)
}

type HistoryCleaner struct {
	history              HistoryCleanupRepository
	cron                 *cron.Cron
	expirationTimeInDays int
	now                  func() time.Time
}

func NewHistoryCleaner(history HistoryCleanupRepository, expirationInDays int) (*HistoryCleaner, error) {

	if expirationInDays <= 0 {
		return nil, errors.New("expiration in days must be greater than zero")
	}

	hc := &HistoryCleaner{
		history:              history,
		cron:                 cron.New(),
		expirationTimeInDays: expirationInDays,
		now:                  time.Now,
	}

	_, err := hc.cron.AddFunc("0 0 * * *", hc.cleanOldSearches)
	if err != nil {
		return nil, err
	}

	return hc, nil
}

func (hc *HistoryCleaner) Start() {
	hc.cron.Start()
	log.Infof("search history cleaner started, expiration in days: %d", hc.expirationTimeInDays)
}

func (hc *HistoryCleaner) Stop() {
	<-hc.cron.Stop().Done()
}

func (hc *HistoryCleaner) cleanOldSearches() {
	expirationTime := hc.now().AddDate(0, 0, -hc.expirationTimeInDays)
	rowsAffected, err := hc.history.RemoveOlderThan(context.Background(), expirationTime)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to clean old searches: %v", err)
	} else {
		log.Infof("old searches were cleaned at %v, affected rows: %v", hc.now(), rowsAffected)
	}
}
