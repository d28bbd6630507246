package cmd

import (
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/in/telegram"
	"fulfillment/internal/adapters/out/geocoder"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/adapters/out/postgres/userrepo"
	tgout "fulfillment/internal/adapters/out/telegram"
	"fulfillment/internal/core/application/notifications"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/metrics"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	bots       map[services.Channel]*tgbotapi.BotAPI
	metrics    *metrics.Metrics
	logger     *slog.Logger

	dispatcher *notifications.Dispatcher
	publisher  *kafka.Publisher
}

// NewCompositionRoot wires the shared services. bots holds the running bot of
// every enabled channel; a channel without one gets no notifications.
func NewCompositionRoot(
	configs Config,
	gormDB *gorm.DB,
	bots map[services.Channel]*tgbotapi.BotAPI,
	logger *slog.Logger,
) *CompositionRoot {
	c := &CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		bots:       bots,
		metrics:    metrics.New(),
		logger:     logger,
	}

	gateways := make(map[services.Channel]ports.NotificationGateway, len(bots))
	for channel, bot := range bots {
		gateways[channel] = tgout.NewGateway(bot)
	}

	users := userrepo.NewGormUserRepository(gormDB)
	c.dispatcher = notifications.NewDispatcher(
		gateways,
		users,
		users,
		catalogrepo.NewGormCatalogRepository(gormDB),
		logger,
		notifications.WithResolver(c.createAddressResolver(), configs.GeocoderTimeout),
		notifications.WithMetrics(c.metrics),
	)

	if brokers := kafka.ParseBrokers(configs.KafkaBrokers); len(brokers) > 0 {
		topic := configs.KafkaOrderStatusTopic
		if topic == "" {
			topic = kafka.DefaultTopic
		}
		c.publisher = kafka.NewPublisher(kafka.NewWriter(brokers, topic), c.metrics)
	} else {
		logger.Warn("kafka brokers not configured, order events are not published")
	}

	return c
}

func (c *CompositionRoot) createAddressResolver() ports.AddressResolver {
	client := &http.Client{}

	var providers []geocoder.Provider
	if c.configs.YandexGeocoderAPIKey != "" {
		providers = append(providers, geocoder.NewYandex(client, "", c.configs.YandexGeocoderAPIKey))
	}
	providers = append(providers, geocoder.NewNominatim(client, c.configs.NominatimURL))

	return geocoder.NewChain(c.configs.GeocoderTimeout, c.metrics, c.logger, providers...)
}

// eventPublisher returns nil when Kafka is disabled.
func (c *CompositionRoot) eventPublisher() ports.OrderEventPublisher {
	if c.publisher == nil {
		return nil
	}
	return c.publisher
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.dispatcher, c.eventPublisher(), c.logger)
}

func (c *CompositionRoot) CreateApplyTransitionCommandHandler() commands.ApplyTransitionCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyTransitionCommandHandler(f, c.dispatcher, c.eventPublisher(), c.logger)
}

func (c *CompositionRoot) CreateUpsertUserCommandHandler() commands.UpsertUserCommandHandler {
	var f commands.UserUoWFactory = FuncUserUoWFactory(func() commands.UserUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpsertUserCommandHandler(f)
}

func (c *CompositionRoot) CreateChangeUserRoleCommandHandler() commands.ChangeUserRoleCommandHandler {
	var f commands.UserUoWFactory = FuncUserUoWFactory(func() commands.UserUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeUserRoleCommandHandler(f)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListUsersQueryHandler() queries.ListUsersQueryHandler {
	return queries.NewListUsersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStatsQueryHandler() queries.GetStatsQueryHandler {
	return queries.NewGetStatsQueryHandler(c.gormDB)
}

// CreateHTTPServer builds the echo instance serving the REST API.
func (c *CompositionRoot) CreateHTTPServer() (*echo.Echo, error) {
	botStatus := make(map[string]bool, len(services.AllChannels))
	for _, channel := range services.AllChannels {
		_, running := c.bots[channel]
		botStatus[channel.String()] = running
	}

	server := httpin.NewServer(httpin.Handlers{
		CreateOrder:     c.CreateCreateOrderCommandHandler(),
		ApplyTransition: c.CreateApplyTransitionCommandHandler(),
		ChangeUserRole:  c.CreateChangeUserRoleCommandHandler(),
		UpsertUser:      c.CreateUpsertUserCommandHandler(),
		ListOrders:      c.CreateListOrdersQueryHandler(),
		GetOrder:        c.CreateGetOrderQueryHandler(),
		ListUsers:       c.CreateListUsersQueryHandler(),
		GetStats:        c.CreateGetStatsQueryHandler(),
	}, botStatus, c.logger)

	return httpin.NewEcho(server, c.metrics, c.logger)
}

// CreateListeners returns one long-polling listener per running bot.
func (c *CompositionRoot) CreateListeners() []*telegram.Listener {
	deps := telegram.Deps{
		Users:       userrepo.NewGormUserRepository(c.gormDB),
		Transitions: c.CreateApplyTransitionCommandHandler(),
		Accounts:    c.CreateUpsertUserCommandHandler(),
		Orders:      c.CreateListOrdersQueryHandler(),
		Stats:       c.CreateGetStatsQueryHandler(),
		FollowUps:   c.dispatcher,
		Metrics:     c.metrics,
		WebAppURL:   c.configs.WebAppURL,
	}

	listeners := make([]*telegram.Listener, 0, len(c.bots))
	for _, channel := range services.AllChannels {
		bot, ok := c.bots[channel]
		if !ok {
			continue
		}
		router := telegram.NewRouter(channel, bot, deps, c.logger)
		listeners = append(listeners, telegram.NewListener(channel, bot, router, c.logger))
	}
	return listeners
}

// CreateJobManager registers the scheduled jobs. The admin digest needs the
// admin bot.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	jobManager := jobs.NewJobManager()
	if _, ok := c.bots[services.ChannelAdmin]; ok {
		jobManager.Add("admin digest", jobs.NewAdminDigestJob(
			c.configs.AdminReportCron,
			c.CreateGetStatsQueryHandler(),
			c.dispatcher,
			telegram.StatsText,
			c.logger,
		))
	}
	return jobManager
}

// Close flushes the event writer.
func (c *CompositionRoot) Close() error {
	if c.publisher == nil {
		return nil
	}
	return c.publisher.Close()
}

type FuncUserUoWFactory func() commands.UserUoW

func (f FuncUserUoWFactory) Create() commands.UserUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
