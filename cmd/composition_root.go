package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	httpin "orderwatch/internal/adapters/in/http"
	"orderwatch/internal/adapters/out/console"
	"orderwatch/internal/adapters/out/kafka"
	"orderwatch/internal/adapters/out/postgres"
	"orderwatch/internal/adapters/out/postgres/orderrepo"
	"orderwatch/internal/adapters/out/postgres/storerepo"
	"orderwatch/internal/adapters/out/postgres/timelinereader"
	"orderwatch/internal/adapters/out/redislock"
	"orderwatch/internal/core/application/usecases/commands"
	"orderwatch/internal/core/application/usecases/queries"
	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/core/domain/services"
	"orderwatch/internal/core/ports"
	"orderwatch/internal/jobs"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	location   *time.Location
	patterns   *order.PatternTable
	logger     *slog.Logger

	locker    ports.Locker
	source    ports.ObservationSource
	actuator  ports.Actuator
	publisher *kafka.Publisher
}

// NewCompositionRoot wires the adapters. The collector, actuator and event
// bus are optional: without their URLs the jobs that need them are not built.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, redisClient redis.UniversalClient, logger *slog.Logger) (*CompositionRoot, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	patterns, err := loadPatterns(cfg.StatusPatternsFile)
	if err != nil {
		return nil, err
	}
	locker, err := redislock.NewRedisLocker(redisClient)
	if err != nil {
		return nil, err
	}

	root := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		location:   location,
		patterns:   patterns,
		logger:     logger,
		locker:     locker,
	}

	if cfg.ConsoleBaseURL != "" {
		if root.source, err = console.NewObservationSource(cfg.ConsoleBaseURL, cfg.ConsoleToken, nil); err != nil {
			return nil, err
		}
	}
	if cfg.ActuatorURL != "" {
		if root.actuator, err = console.NewActuator(cfg.ActuatorURL, cfg.ConsoleToken, nil); err != nil {
			return nil, err
		}
	}
	if cfg.KafkaHost != "" {
		if root.publisher, err = kafka.NewPublisher(cfg.KafkaHost, cfg.KafkaOrderChangedTopic, logger); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// Close releases the event bus connection.
func (c *CompositionRoot) Close() error {
	if c.publisher != nil {
		return c.publisher.Close()
	}
	return nil
}

func (c *CompositionRoot) Location() *time.Location { return c.location }
func (c *CompositionRoot) Locker() ports.Locker     { return c.locker }
func (c *CompositionRoot) HasCollector() bool       { return c.source != nil }
func (c *CompositionRoot) HasActuator() bool        { return c.actuator != nil }

func (c *CompositionRoot) CreateReconcileOrderCommandHandler() commands.ReconcileOrderCommandHandler {
	var f commands.ReconcileUoWFactory = FuncReconcileUoWFactory(func() commands.ReconcileUoW {
		return c.uowFactory.Create()
	})
	// a nil *kafka.Publisher must not become a non-nil interface
	var publisher ports.EventPublisher
	if c.publisher != nil {
		publisher = c.publisher
	}
	return commands.NewReconcileOrderCommandHandler(f, services.NewCanonicalizer(c.patterns), publisher, c.logger)
}

func (c *CompositionRoot) CreateObservationIngestor() commands.ObservationIngestor {
	return commands.NewObservationIngestor(c.source, c.CreateReconcileOrderCommandHandler())
}

func (c *CompositionRoot) CreateSyncRecentOrdersCommandHandler() commands.SyncRecentOrdersCommandHandler {
	return commands.NewSyncRecentOrdersCommandHandler(c.source, c.CreateObservationIngestor())
}

func (c *CompositionRoot) CreateBackfillHistoryCommandHandler() commands.BackfillHistoryCommandHandler {
	return commands.NewBackfillHistoryCommandHandler(c.source, c.orderReader(), c.CreateObservationIngestor(), c.logger)
}

func (c *CompositionRoot) CreateEnrichOrdersCommandHandler() commands.EnrichOrdersCommandHandler {
	return commands.NewEnrichOrdersCommandHandler(c.orderReader(), c.CreateObservationIngestor())
}

func (c *CompositionRoot) CreateIntegritySweepCommandHandler() commands.IntegritySweepCommandHandler {
	return commands.NewIntegritySweepCommandHandler(c.source, c.orderReader(), c.CreateObservationIngestor(), c.logger)
}

func (c *CompositionRoot) CreateSanitizeLogsCommandHandler() commands.SanitizeLogsCommandHandler {
	var f commands.TimelineUoWFactory = FuncTimelineUoWFactory(func() commands.TimelineUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSanitizeLogsCommandHandler(f, c.orderReader(), c.logger)
}

func (c *CompositionRoot) CreateEnforceSchedulesCommandHandler() commands.EnforceSchedulesCommandHandler {
	return commands.NewEnforceSchedulesCommandHandler(
		storerepo.NewGormStoreRepository(c.gormDB),
		c.CreateScheduleRepository(),
		c.actuator,
		c.location,
		commands.DefaultRetryPolicy(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetBottlenecksQueryHandler() queries.GetBottlenecksQueryHandler {
	return queries.NewGetBottlenecksQueryHandler(timelinereader.NewGormTimelineReader(c.gormDB))
}

func (c *CompositionRoot) CreateGetCancellationReasonsQueryHandler() queries.GetCancellationReasonsQueryHandler {
	return queries.NewGetCancellationReasonsQueryHandler(timelinereader.NewGormTimelineReader(c.gormDB))
}

func (c *CompositionRoot) CreateGetOrderDurationQueryHandler() queries.GetOrderDurationQueryHandler {
	return queries.NewGetOrderDurationQueryHandler(timelinereader.NewGormTimelineReader(c.gormDB))
}

func (c *CompositionRoot) CreateGetOrderTimelineQueryHandler() queries.GetOrderTimelineQueryHandler {
	return queries.NewGetOrderTimelineQueryHandler(timelinereader.NewGormTimelineReader(c.gormDB))
}

// CreateScheduleRepository exposes schedule writes for operator tooling.
func (c *CompositionRoot) CreateScheduleRepository() *storerepo.GormScheduleRepository {
	return storerepo.NewGormScheduleRepository(c.gormDB)
}

func (c *CompositionRoot) CreateStoreRepository() *storerepo.GormStoreRepository {
	return storerepo.NewGormStoreRepository(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateReconcileOrderCommandHandler(),
		c.CreateGetBottlenecksQueryHandler(),
		c.CreateGetCancellationReasonsQueryHandler(),
		c.CreateGetOrderDurationQueryHandler(),
		c.CreateGetOrderTimelineQueryHandler(),
		c.location,
		c.logger,
	)
}

// CreateJobManager registers every job whose collaborators are configured.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	settings := c.cfg.JobSettings()
	list := []jobs.Job{jobs.NewSanitizeJob(c.CreateSanitizeLogsCommandHandler(), settings)}

	if c.HasCollector() {
		list = append(list,
			jobs.NewBackfillJob(c.CreateBackfillHistoryCommandHandler()),
			jobs.NewMonitorJob(c.CreateSyncRecentOrdersCommandHandler(), settings),
			jobs.NewEnrichmentJob(c.CreateEnrichOrdersCommandHandler(), settings),
			jobs.NewSweepJob(c.CreateIntegritySweepCommandHandler(), settings),
		)
	} else {
		c.logger.Warn("CONSOLE_BASE_URL not set, collector jobs disabled")
	}

	if c.HasActuator() {
		list = append(list, jobs.NewEnforceJob(c.CreateEnforceSchedulesCommandHandler()))
	} else {
		c.logger.Warn("ACTUATOR_URL not set, schedule enforcement disabled")
	}

	return jobs.NewJobManager(c.locker, c.location, c.logger, list...)
}

func (c *CompositionRoot) orderReader() commands.OrderReader {
	return orderrepo.NewGormOrderRepository(c.gormDB)
}

func loadPatterns(path string) (*order.PatternTable, error) {
	if path == "" {
		return order.DefaultPatternTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open status patterns: %w", err)
	}
	defer f.Close()
	return order.LoadPatternTable(f)
}

type FuncReconcileUoWFactory func() commands.ReconcileUoW

func (f FuncReconcileUoWFactory) Create() commands.ReconcileUoW {
	return f()
}

type FuncTimelineUoWFactory func() commands.TimelineUoW

func (f FuncTimelineUoWFactory) Create() commands.TimelineUoW {
	return f()
}
