package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// SweeperService expires leases whose term has run out. Invoked periodically
// by the background runner; the conditional update in the store means a
// sweep that races another sweep is harmless.
type SweeperService struct {
	leases LeaseStore
	logger *logrus.Entry
	now    func() time.Time
}

// NewSweeperService creates a new sweeper service
func NewSweeperService(leases LeaseStore, logger *logrus.Logger) *SweeperService {
	return &SweeperService{
		leases: leases,
		logger: logger.WithField("component", "sweeper"),
		now:    time.Now,
	}
}

// SweepExpired marks every active lease past its expiration date as expired
// and returns the number of leases transitioned
func (s *SweeperService) SweepExpired(ctx context.Context) (int64, error) {
	expired, err := s.leases.MarkExpired(ctx, s.now())
	if err != nil {
		return 0, NewPersistenceError("expire leases", false, err)
	}

	if expired > 0 {
		s.logger.WithField("expired", expired).Info("Leases expired")
	}
	return expired, nil
}
