package background

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/au-parking/parking-core-service/internal/usecase"
)

// BackgroundTasks runs the two daily sweeps at their configured local times:
// the owner warning at the evening cutoff and the overnight fee recompute in
// the early morning.
type BackgroundTasks struct {
	SweepUsecase    usecase.SweepUsecase
	Location        *time.Location
	WarningTime     string
	RecalculateTime string
}

func NewBackgroundTasks(sweepUC usecase.SweepUsecase, location *time.Location, warningTime, recalculateTime string) *BackgroundTasks {
	return &BackgroundTasks{
		SweepUsecase:    sweepUC,
		Location:        location,
		WarningTime:     warningTime,
		RecalculateTime: recalculateTime,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.runDaily(ctx, bt.WarningTime, "warning sweep", bt.SweepUsecase.WarnInSystemTransactions)
	go bt.runDaily(ctx, bt.RecalculateTime, "recalculate sweep", bt.SweepUsecase.RecalculateInSystemFees)
}

func (bt *BackgroundTasks) runDaily(ctx context.Context, at, name string, job func(context.Context) error) {
	hour, minute, err := parseClock(at)
	if err != nil {
		log.Printf("invalid schedule for %s (%q): %v\n", name, at, err)
		return
	}

	for {
		timer := time.NewTimer(time.Until(bt.nextRun(hour, minute)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := job(ctx); err != nil {
				log.Printf("%s error: %v\n", name, err)
			}
		}
	}
}

// nextRun is the next occurrence of hour:minute in the facility's local zone.
func (bt *BackgroundTasks) nextRun(hour, minute int) time.Time {
	now := time.Now().In(bt.Location)
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, bt.Location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func parseClock(value string) (hour, minute int, err error) {
	if _, err := fmt.Sscanf(value, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock value out of range: %s", value)
	}
	return hour, minute, nil
}
