// Command ops is the operator CLI: migrations, one-off job runs with an
// optional lock override, schedule maintenance and ad hoc reports.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"orderwatch/cmd"
	"orderwatch/internal/adapters/out/postgres"
	"orderwatch/internal/adapters/out/postgres/migrations"
	"orderwatch/internal/core/application/usecases/queries"
	"orderwatch/internal/core/domain/model/kernel"
	"orderwatch/internal/core/domain/model/store"
	"orderwatch/internal/jobs"
)

type CLI struct {
	EnvFile string `name:"env-file" default:".env" help:"Environment file loaded before reading configuration."`

	Migrate     MigrateCmd     `cmd:"" help:"Apply pending schema migrations, or roll back with --down."`
	Backfill    JobCmd         `cmd:"" help:"Import the whole console history." job:"backfill"`
	Monitor     JobCmd         `cmd:"" help:"Reconcile the most recent orders once." job:"monitor"`
	Enrich      JobCmd         `cmd:"" help:"Drain orders missing derived fields." job:"enrichment"`
	Sweep       JobCmd         `cmd:"" help:"Re-ingest suspicious recent orders." job:"integrity_sweep"`
	Sanitize    JobCmd         `cmd:"" help:"Prune rebounds from recent status logs." job:"sanitize_logs"`
	Enforce     JobCmd         `cmd:"" help:"Close stores found open outside their hours." job:"enforce_schedules"`
	Unlock      UnlockCmd      `cmd:"" help:"Break a job lock left by a crashed run."`
	Bottlenecks   BottlenecksCmd   `cmd:"" help:"Print the bottleneck report as JSON."`
	Cancellations CancellationsCmd `cmd:"" help:"Print cancellation reason counts as JSON."`
	ScheduleSet   ScheduleSetCmd   `cmd:"" name:"schedule-set" help:"Create or replace a store's weekly rule."`
	HolidayAdd    HolidayAddCmd    `cmd:"" name:"holiday-add" help:"Add a holiday override for one store or all stores."`
}

// env is bound into every command and opens infrastructure on first use.
type env struct {
	cfg    cmd.Config
	logger *slog.Logger
	root   *cmd.CompositionRoot
	redis  *redis.Client
}

func (e *env) app() (*cmd.CompositionRoot, error) {
	if e.root != nil {
		return e.root, nil
	}
	gormDB, err := postgres.Open(e.cfg.DatabaseURL())
	if err != nil {
		return nil, err
	}
	opts, err := redis.ParseURL(e.cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("REDIS_URL: %w", err)
	}
	e.redis = redis.NewClient(opts)
	e.root, err = cmd.NewCompositionRoot(e.cfg, gormDB, e.redis, e.logger)
	return e.root, err
}

func (e *env) close() {
	if e.root != nil {
		_ = e.root.Close()
	}
	if e.redis != nil {
		_ = e.redis.Close()
	}
}

type MigrateCmd struct {
	Down int `help:"Roll back this many migrations instead of applying."`
}

func (c *MigrateCmd) Run(e *env) error {
	if c.Down > 0 {
		if err := migrations.Down(e.cfg.DatabaseURL(), c.Down); err != nil {
			return err
		}
	} else if err := migrations.Up(e.cfg.DatabaseURL()); err != nil {
		return err
	}
	version, dirty, err := migrations.Version(e.cfg.DatabaseURL())
	if err != nil {
		return err
	}
	fmt.Printf("schema version %d (dirty=%t)\n", version, dirty)
	return nil
}

type JobCmd struct {
	Force bool `help:"Break the job lock before running."`
}

func (c *JobCmd) Run(ctx context.Context, kctx *kong.Context, e *env) error {
	name := kctx.Selected().Tag.Get("job")
	app, err := e.app()
	if err != nil {
		return err
	}
	manager, err := app.CreateJobManager()
	if err != nil {
		return err
	}

	started := time.Now()
	result, err := manager.Run(ctx, name, c.Force)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	fmt.Printf("%s: %s in %s\n", name, result, time.Since(started).Round(time.Millisecond))
	if result == jobs.ResultSkipped {
		fmt.Println("another run holds the lock; use --force if it crashed")
	}
	return nil
}

type UnlockCmd struct {
	Job string `arg:"" help:"Job name, e.g. enrichment."`
}

func (c *UnlockCmd) Run(ctx context.Context, e *env) error {
	app, err := e.app()
	if err != nil {
		return err
	}
	return app.Locker().ForceRelease(ctx, c.Job)
}

// ReportFilter holds the flags shared by the report commands.
type ReportFilter struct {
	Start  string `help:"First day, YYYY-MM-DD."`
	End    string `help:"Last day (inclusive), YYYY-MM-DD."`
	Store  string `help:"Exact store name."`
	Search string `help:"Order id prefix or customer name fragment."`
}

func (f ReportFilter) params() queries.ReportParams {
	return queries.ReportParams{StartDate: f.Start, EndDate: f.End, StoreName: f.Store, Search: f.Search}
}

func printJSON(v any) error {
	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	return out.Encode(v)
}

type BottlenecksCmd struct {
	ReportFilter `embed:""`
}

func (c *BottlenecksCmd) Run(ctx context.Context, e *env) error {
	app, err := e.app()
	if err != nil {
		return err
	}
	query, err := queries.NewGetBottlenecksQuery(c.params(), app.Location())
	if err != nil {
		return err
	}
	handler := app.CreateGetBottlenecksQueryHandler()
	report, err := handler.Handle(ctx, query)
	if err != nil {
		return err
	}
	return printJSON(report)
}

type CancellationsCmd struct {
	ReportFilter `embed:""`
}

func (c *CancellationsCmd) Run(ctx context.Context, e *env) error {
	app, err := e.app()
	if err != nil {
		return err
	}
	query, err := queries.NewGetCancellationReasonsQuery(c.params(), app.Location())
	if err != nil {
		return err
	}
	handler := app.CreateGetCancellationReasonsQueryHandler()
	reasons, err := handler.Handle(ctx, query)
	if err != nil {
		return err
	}
	return printJSON(reasons)
}

type ScheduleSetCmd struct {
	Store    string `arg:"" help:"Store name."`
	Weekday  string `arg:"" help:"Day of week, e.g. monday."`
	Open     string `arg:"" help:"Opening time, HH:MM."`
	Close    string `arg:"" help:"Closing time, HH:MM."`
	Buffer   int    `default:"0" help:"Minutes before closing when the store must already be closed."`
	Inactive bool   `help:"Store the rule disabled."`
}

func (c *ScheduleSetCmd) Run(ctx context.Context, e *env) error {
	app, err := e.app()
	if err != nil {
		return err
	}
	s, err := app.CreateStoreRepository().GetByName(ctx, c.Store)
	if err != nil {
		return err
	}
	weekday, err := parseWeekday(c.Weekday)
	if err != nil {
		return err
	}
	open, err := kernel.ParseClockTime(c.Open)
	if err != nil {
		return err
	}
	closeAt, err := kernel.ParseClockTime(c.Close)
	if err != nil {
		return err
	}
	rule, err := store.NewScheduleRule(s.ID(), weekday, open, closeAt, c.Buffer, !c.Inactive)
	if err != nil {
		return err
	}
	return app.CreateScheduleRepository().SaveRule(ctx, rule)
}

type HolidayAddCmd struct {
	Date  string `arg:"" help:"Calendar date, YYYY-MM-DD."`
	Store string `help:"Store name; omit for a holiday of every store."`
	Open  string `help:"Opening time, HH:MM. Omit with --close for a closed day."`
	Close string `help:"Closing time, HH:MM."`
}

func (c *HolidayAddCmd) Run(ctx context.Context, e *env) error {
	app, err := e.app()
	if err != nil {
		return err
	}
	date, err := time.ParseInLocation(time.DateOnly, c.Date, app.Location())
	if err != nil {
		return fmt.Errorf("date %q: %w", c.Date, err)
	}

	var storeID *uuid.UUID
	if c.Store != "" {
		s, err := app.CreateStoreRepository().GetByName(ctx, c.Store)
		if err != nil {
			return err
		}
		id := s.ID()
		storeID = &id
	}

	var open, closeAt *kernel.ClockTime
	if c.Open != "" || c.Close != "" {
		o, err := kernel.ParseClockTime(c.Open)
		if err != nil {
			return err
		}
		cl, err := kernel.ParseClockTime(c.Close)
		if err != nil {
			return err
		}
		open, closeAt = &o, &cl
	}

	holiday, err := store.NewHolidayOverride(date, storeID, open == nil, open, closeAt)
	if err != nil {
		return err
	}
	return app.CreateScheduleRepository().AddHoliday(ctx, holiday)
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), s) || strings.EqualFold(d.String()[:3], s) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("ops"),
		kong.Description("Operator tooling for the order tracker."),
		kong.UsageOnError(),
	)

	cfg, err := cmd.LoadConfig(cli.EnvFile)
	kctx.FatalIfErrorf(err)
	logger, syncLogger, err := cmd.NewLogger(cfg.LogLevel)
	kctx.FatalIfErrorf(err)
	defer syncLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := &env{cfg: cfg, logger: logger}
	defer e.close()

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.FatalIfErrorf(kctx.Run(e, kctx))
}
