package admin

import (
	"context"
	"fmt"

	"github.com/leonelquinteros/gotext"
	"go.uber.org/zap"

	"riddlebox/pkg/engine/logging"
	"riddlebox/pkg/game/progress"
	"riddlebox/pkg/game/riddle"
	"riddlebox/pkg/game/state"
)

// Status summarises how far a riddle has been played.
type Status int

const (
	NotStarted Status = iota
	InProgress
	Completed
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return gotext.Get("In progress")
	case Completed:
		return gotext.Get("Completed")
	default:
		return gotext.Get("Not started")
	}
}

// Row is one riddle as shown on the dashboard.
type Row struct {
	Riddle riddle.Meta
	Stage  int
	Label  string
	Status Status
}

// Position reads "Stage n of total".
func (r Row) Position() string {
	return gotext.Get("Stage %d of %d", r.Stage+1, r.Riddle.TotalStages)
}

// Dashboard applies admin operations to the progress repository.
type Dashboard struct {
	repo   progress.Repository
	logger *zap.Logger
}

// NewDashboard returns a dashboard over repo.
func NewDashboard(repo progress.Repository, logger *zap.Logger) *Dashboard {
	return &Dashboard{repo: repo, logger: logging.OrNop(logger).Named("admin")}
}

// Rows returns one row per registered riddle, in registry order.
func (d *Dashboard) Rows(ctx context.Context) []Row {
	g := d.repo.State(ctx)
	metas := riddle.Registry()
	rows := make([]Row, 0, len(metas))
	for _, m := range metas {
		stage := g.Stage(m.ID)
		rows = append(rows, Row{
			Riddle: m,
			Stage:  stage,
			Label:  m.StageLabel(stage),
			Status: statusOf(m, stage),
		})
	}
	return rows
}

// Jump sets riddle id to stage, clamped to the riddle's range, and returns
// the stage stored.
func (d *Dashboard) Jump(ctx context.Context, id string, stage int) (int, error) {
	m, err := lookup(id)
	if err != nil {
		return 0, err
	}
	clamped := m.Clamp(stage)
	d.repo.SetProgress(ctx, id, clamped)
	d.logger.Info("stage set", zap.String("riddle", id), zap.Int("requested", stage), zap.Int("stage", clamped))
	return clamped, nil
}

// Advance moves riddle id one stage forward. A completed riddle is left
// where it is.
func (d *Dashboard) Advance(ctx context.Context, id string) (int, error) {
	m, err := lookup(id)
	if err != nil {
		return 0, err
	}
	cur := d.repo.Progress(ctx, id)
	if m.IsCompleted(cur) {
		return cur, nil
	}
	next := d.repo.AdvanceProgress(ctx, id)
	d.logger.Info("stage advanced", zap.String("riddle", id), zap.Int("stage", next))
	return next, nil
}

// Reset clears the progress of riddle id.
func (d *Dashboard) Reset(ctx context.Context, id string) error {
	if _, err := lookup(id); err != nil {
		return err
	}
	d.repo.ResetProgress(ctx, id)
	d.logger.Info("riddle reset", zap.String("riddle", id))
	return nil
}

// ResetAll deletes the stored state; admin settings return to their defaults.
func (d *Dashboard) ResetAll(ctx context.Context) {
	d.repo.ResetAll(ctx)
	d.logger.Info("all riddles reset")
}

// Settings returns the stored admin settings.
func (d *Dashboard) Settings(ctx context.Context) state.AdminSettings {
	return d.repo.State(ctx).AdminSettings
}

// SetBypass toggles the loopback PIN bypass.
func (d *Dashboard) SetBypass(ctx context.Context, on bool) state.AdminSettings {
	d.logger.Info("pin bypass toggled", zap.Bool("enabled", on))
	return d.repo.UpdateAdminSettings(ctx, state.AdminSettingsPatch{BypassPinOnLocalhost: &on}).AdminSettings
}

// SetDevTools toggles stage skipping.
func (d *Dashboard) SetDevTools(ctx context.Context, on bool) state.AdminSettings {
	d.logger.Info("dev tools toggled", zap.Bool("enabled", on))
	return d.repo.UpdateAdminSettings(ctx, state.AdminSettingsPatch{DevToolsEnabled: &on}).AdminSettings
}

func lookup(id string) (riddle.Meta, error) {
	m, ok := riddle.Lookup(id)
	if !ok {
		return riddle.Meta{}, fmt.Errorf("%w: %q", ErrUnknownRiddle, id)
	}
	return m, nil
}

func statusOf(m riddle.Meta, stage int) Status {
	switch {
	case stage <= 0:
		return NotStarted
	case m.IsCompleted(stage):
		return Completed
	default:
		return InProgress
	}
}
