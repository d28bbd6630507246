package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
)

// DefaultDigestSchedule fires every day at 09:00.
const DefaultDigestSchedule = "0 0 9 * * *"

type StatsReader interface {
	Handle(ctx context.Context, query queries.GetStatsQuery) (queries.Stats, error)
}

type Broadcaster interface {
	Broadcast(ctx context.Context, channel services.Channel, text string, roles ...kernel.Role) (int, error)
}

// AdminDigestJob sends the system counters to every ADMIN over the admin channel.
type AdminDigestJob struct {
	schedule    string
	stats       StatsReader
	broadcaster Broadcaster
	render      func(queries.Stats) string
	cron        *cron.Cron
	logger      *slog.Logger
}

// NewAdminDigestJob creates the digest job. schedule is a six-field cron
// expression (seconds first); an empty one means DefaultDigestSchedule.
func NewAdminDigestJob(
	schedule string,
	stats StatsReader,
	broadcaster Broadcaster,
	render func(queries.Stats) string,
	logger *slog.Logger,
) *AdminDigestJob {
	if schedule == "" {
		schedule = DefaultDigestSchedule
	}
	return &AdminDigestJob{
		schedule:    schedule,
		stats:       stats,
		broadcaster: broadcaster,
		render:      render,
		cron:        cron.New(cron.WithSeconds()),
		logger:      logger.With("component", "admin_digest_job"),
	}
}

// Start registers the digest on its schedule and starts the scheduler.
func (j *AdminDigestJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Admin digest job started", "schedule", j.schedule)
	return nil
}

// Run sends one digest. Failures are logged only.
func (j *AdminDigestJob) Run(ctx context.Context) {
	stats, err := j.stats.Handle(ctx, queries.NewGetStatsQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Admin digest stats failed", "error", err)
		return
	}

	sent, err := j.broadcaster.Broadcast(ctx, services.ChannelAdmin, j.render(stats), kernel.RoleAdmin)
	if err != nil {
		j.logger.ErrorContext(ctx, "Admin digest broadcast failed", "error", err)
		return
	}
	j.logger.InfoContext(ctx, "Admin digest sent", "recipients", sent)
}

// Stop stops the scheduler and waits for a running digest to finish.
func (j *AdminDigestJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Admin digest job stopped")
}
