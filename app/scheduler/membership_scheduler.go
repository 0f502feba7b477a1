// Package scheduler
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/tatame-app/tatame/config"
	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/repository"
	"github.com/tatame-app/tatame/utils"
)

// MembershipScheduler periodically reactivates members whose freeze window has ended
type MembershipScheduler struct {
	memberRepo repository.MemberRepository
	logger     *log.Logger
	cfg        config.SchedulerConfig

	logFile *os.File
}

func NewMembershipScheduler(memberRepo repository.MemberRepository, cfg config.SchedulerConfig) *MembershipScheduler {
	if cfg.UnfreezeInterval <= 0 {
		cfg.UnfreezeInterval = time.Hour
	}
	if cfg.UnfreezeBatchSize <= 0 {
		cfg.UnfreezeBatchSize = 100
	}

	s := &MembershipScheduler{
		memberRepo: memberRepo,
		cfg:        cfg,
	}

	// Initialize scheduler-specific logger (to stdout and persistent file)
	if err := s.initSchedulerLogger(); err != nil {
		// Fallback to default stdout logger if file logger init fails
		s.logger = log.Default()
		s.logger.Printf("scheduler: failed to initialize file logger: %v", err)
	}

	return s
}

// initSchedulerLogger configures a logger that writes to both stdout and a persistent file under data/ (or /data)
func (s *MembershipScheduler) initSchedulerLogger() error {
	// Prefer relative data/ then fallback to /data for containerized environments
	candidates := []string{
		filepath.Join("data"),
		"/data",
	}
	for _, dir := range candidates {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			continue
		}
		logPath := filepath.Join(dir, "scheduler.log")
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			continue
		}
		s.logFile = f
		mw := io.MultiWriter(os.Stdout, f)
		s.logger = log.New(mw, "scheduler ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
		return nil
	}
	return fmt.Errorf("could not create scheduler log file in any candidate directory")
}

// Start launches the scheduler loop in a background goroutine and returns a stop function
func (s *MembershipScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.cfg.UnfreezeInterval)
		defer ticker.Stop()

		s.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return func() {
		cancel()
		if s.logFile != nil {
			s.logFile.Close()
		}
	}
}

func (s *MembershipScheduler) runOnce(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	now := utils.UTCNow()

	// Expiry is evaluated lazily at the door; the sweep only surfaces how
	// many active subscriptions have lapsed
	expired, err := s.memberRepo.Count(sweepCtx, models.MemberFilter{
		Status:        utils.ToPtr(models.MemberStatusAtivo),
		ExpiresBefore: &now,
	})
	if err != nil {
		s.logger.Printf("scheduler: count expired subscriptions failed: %v", err)
	} else if expired > 0 {
		s.logger.Printf("scheduler: %d active members with lapsed access", expired)
	}

	due, err := s.memberRepo.ListFreezesDue(sweepCtx, now, s.cfg.UnfreezeBatchSize)
	if err != nil {
		s.logger.Printf("scheduler: list freezes due failed: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}
	s.logger.Printf("scheduler: %d freeze windows expired", len(due))

	reactivated := 0
	for _, member := range due {
		if member == nil {
			continue
		}
		if err := s.memberRepo.ClearFreezeWindow(sweepCtx, member.ID); err != nil {
			s.logger.Printf("scheduler: unfreeze member id=%d failed: %v", member.ID, err)
			continue
		}
		reactivated++
	}
	s.logger.Printf("scheduler: reactivated %d members", reactivated)
}
