package app

import (
	"context"
	"fmt"
	"net/http"

	server "github.com/Andrey15243/Pin/internal/adapters/primary/http"
	healthcheckController "github.com/Andrey15243/Pin/internal/adapters/primary/http/controllers/healthcheck"
	miniappController "github.com/Andrey15243/Pin/internal/adapters/primary/http/controllers/miniapp"
	telegramController "github.com/Andrey15243/Pin/internal/adapters/primary/http/controllers/telegram"
	"github.com/Andrey15243/Pin/internal/adapters/primary/http/middlewares"
	alerterAdapter "github.com/Andrey15243/Pin/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/Andrey15243/Pin/internal/adapters/secondary/kafka"
	starsProvider "github.com/Andrey15243/Pin/internal/adapters/secondary/payment/telegram_stars"
	"github.com/Andrey15243/Pin/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/Andrey15243/Pin/internal/adapters/secondary/storage/redis"
	tgAdapter "github.com/Andrey15243/Pin/internal/adapters/secondary/telegram"
	"github.com/Andrey15243/Pin/internal/ports/cache"
	kafkaPort "github.com/Andrey15243/Pin/internal/ports/kafka"
	"github.com/Andrey15243/Pin/internal/ports/repository"
	"github.com/Andrey15243/Pin/internal/ports/service"
	paymentRepo "github.com/Andrey15243/Pin/internal/repository/payment"
	referralRepo "github.com/Andrey15243/Pin/internal/repository/referral"
	userRepo "github.com/Andrey15243/Pin/internal/repository/user"
	alerterService "github.com/Andrey15243/Pin/internal/services/alerter"
	jobScheduler "github.com/Andrey15243/Pin/internal/services/jobs"
	telegramService "github.com/Andrey15243/Pin/internal/services/telegram"
	boostUsecase "github.com/Andrey15243/Pin/internal/usecases/boost"
	paymentUsecase "github.com/Andrey15243/Pin/internal/usecases/payment"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Dependencies struct {
	DB              *sqlx.DB
	HTTPServer      *http.Server
	TelegramService *telegramService.Service
	TelegramClient  *tgAdapter.Client
	TelegramPoller  *tgAdapter.Poller
	KafkaProducer   *kafkaAdapter.Producer
	Cache           cache.Cache
	JobScheduler    *jobScheduler.Scheduler
}

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies(ctx context.Context) (*Dependencies, error) {
	db, err := a.initPostgres()
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	repos := a.initRepositories(db)
	external := a.initExternalServices()

	tgClient, tgService, err := a.initTelegram(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram: %w", err)
	}

	kafkaProducer := a.initKafka()

	// Payment use case зависит от telegram service (уведомления), а telegram
	// service роутит платёжные события обратно в use case - связываем после создания
	paymentUseCase := paymentUsecase.New(
		repos.Payment,
		repos.User,
		repos.Referral,
		starsProvider.NewProvider(tgClient, a.Log),
		tgService,
		external.Alerter,
		producerOrNil(kafkaProducer),
		external.Cache,
		a.prices(),
		a.Log,
	)

	boostUseCase := boostUsecase.New(
		repos.User,
		repos.Referral,
		tgService,
		paymentUseCase,
		external.Cache,
		a.Log,
	)

	tgService.SetBotService(boostUseCase)
	tgService.SetPaymentUseCase(paymentUseCase)

	httpServer := a.initHTTP(db, tgService, boostUseCase, paymentUseCase)

	poller, err := a.initTelegramMode(ctx, tgClient, tgService)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram mode: %w", err)
	}

	scheduler := a.initJobScheduler(external.Alerter, repos)

	return &Dependencies{
		DB:              db,
		HTTPServer:      httpServer,
		TelegramService: tgService,
		TelegramClient:  tgClient,
		TelegramPoller:  poller,
		KafkaProducer:   kafkaProducer,
		Cache:           external.Cache,
		JobScheduler:    scheduler,
	}, nil
}

// repositories содержит инициализированные репозитории
type repositories struct {
	User     repository.IUserRepo
	Payment  repository.IPaymentRepo
	Referral repository.IReferralRepo
}

// initRepositories инициализирует репозитории для работы с БД
func (a *App) initRepositories(db *sqlx.DB) *repositories {
	persistenceLayer := pg.NewDB(db)
	return &repositories{
		User:     userRepo.New(persistenceLayer, a.Log),
		Payment:  paymentRepo.New(persistenceLayer, a.Log),
		Referral: referralRepo.New(persistenceLayer, a.Log),
	}
}

// externalServices содержит внешние сервисы (опциональные)
type externalServices struct {
	Alerter service.IAlerterService
	Cache   cache.Cache
}

// initExternalServices инициализирует Alerter и Redis кеш
func (a *App) initExternalServices() *externalServices {
	services := &externalServices{}

	if a.Cfg.Alerter != nil {
		alerterClient := alerterAdapter.NewClient(a.Cfg.Alerter, a.Log)
		services.Alerter = alerterService.New(alerterClient)
	}

	if a.Cfg.Redis != nil {
		redisClient, err := a.Cfg.Redis.NewConnection()
		if err != nil {
			a.Log.Warn("failed to init redis cache, continuing without cache", "error", err)
		} else {
			services.Cache = redisAdapter.NewClient(redisClient)
			a.Log.Info("redis cache connected successfully")
		}
	}

	return services
}

// initTelegram инициализирует Telegram клиент и сервис
func (a *App) initTelegram(ctx context.Context) (*tgAdapter.Client, *telegramService.Service, error) {
	if a.Cfg.Telegram == nil || a.Cfg.Telegram.BotToken == "" {
		return nil, nil, fmt.Errorf("telegram bot token is required")
	}

	client := tgAdapter.NewClient(a.Cfg.Telegram.BotToken, a.Log)

	if err := client.GetMe(ctx); err != nil {
		return nil, nil, fmt.Errorf("telegram token check failed: %w", err)
	}

	if err := a.registerBotCommands(ctx, client); err != nil {
		a.Log.Warn("failed to register bot commands", "error", err)
	}

	// botService и paymentUseCase подставляются после создания use case-ов
	tgService := telegramService.New(client, nil, nil, a.Log)

	return client, tgService, nil
}

// initKafka инициализирует Kafka producer (опционален)
func (a *App) initKafka() *kafkaAdapter.Producer {
	if a.Cfg.Kafka == nil || !a.Cfg.Kafka.IsEnabled() {
		a.Log.Info("kafka is not configured, payment events will not be published")
		return nil
	}

	producer, err := kafkaAdapter.NewProducer(a.Cfg.Kafka, a.Log)
	if err != nil {
		a.Log.Warn("failed to create kafka producer, continuing without events", "error", err)
		return nil
	}

	return producer
}

// initHTTP инициализирует HTTP сервер и контроллеры
func (a *App) initHTTP(
	db *sqlx.DB,
	tgService *telegramService.Service,
	boostUseCase *boostUsecase.Service,
	paymentUseCase *paymentUsecase.Service,
) *http.Server {
	webhookSecret := ""
	if a.Cfg.Telegram != nil {
		webhookSecret = a.Cfg.Telegram.WebhookSecret
	}

	controllers := []server.Controller{
		healthcheckController.New(db, a.Log),
		telegramController.New(tgService, webhookSecret, a.Log),
		miniappController.New(boostUseCase, paymentUseCase, a.Log),
	}

	mws := []gin.HandlerFunc{
		middlewares.RecoveryLogger(a.Log),
	}
	if a.Cfg.Server.EnableLoggingMiddleware {
		mws = append(mws, middlewares.RequestLogger(a.Log))
	}

	return server.NewHTTPServer(a.Cfg.Server, a.Log, mws, controllers...)
}

// initTelegramMode инициализирует режим работы Telegram (webhook или polling)
func (a *App) initTelegramMode(
	ctx context.Context,
	client *tgAdapter.Client,
	tgService *telegramService.Service,
) (*tgAdapter.Poller, error) {
	a.Log.Info("telegram configuration",
		"use_webhook", a.Cfg.Telegram.IsWebhookEnabled(),
		"webhook_url", a.Cfg.Telegram.WebhookURL,
	)

	if a.Cfg.Telegram.IsWebhookEnabled() {
		if a.Cfg.Telegram.WebhookURL == "" {
			return nil, fmt.Errorf("webhook_url is required when use_webhook is true")
		}

		webhookURL := fmt.Sprintf("%s/webhook", a.Cfg.Telegram.WebhookURL)
		if err := client.SetWebhook(ctx, webhookURL, a.Cfg.Telegram.WebhookSecret); err != nil {
			return nil, fmt.Errorf("failed to set webhook: %w", err)
		}

		return nil, nil // webhook режим, poller не нужен
	}

	a.Log.Warn("polling mode enabled - this should only be used for local development")

	return tgAdapter.NewPoller(client, a.Cfg.Telegram, tgService.HandleUpdate, a.Log), nil
}

// prices читает цены из конфигурации (дефолты на случай пустой секции)
func (a *App) prices() paymentUsecase.Prices {
	if a.Cfg.Payments == nil {
		return paymentUsecase.Prices{Boost: 10000, Donate: 250, Energy: 100}
	}
	return paymentUsecase.Prices{
		Boost:  a.Cfg.Payments.BoostPrice,
		Donate: a.Cfg.Payments.DonatePrice,
		Energy: a.Cfg.Payments.EnergyPrice,
	}
}

// producerOrNil прячет типизированный nil за nil-интерфейсом
func producerOrNil(p *kafkaAdapter.Producer) kafkaPort.IKafkaProducer {
	if p == nil {
		return nil
	}
	return p
}

// initJobScheduler инициализирует планировщик джоб
func (a *App) initJobScheduler(
	alerterSvc service.IAlerterService,
	repos *repositories,
) *jobScheduler.Scheduler {
	scheduler := jobScheduler.NewScheduler(a.Log, alerterSvc)

	if alerterSvc != nil {
		pendingAlert := jobScheduler.NewPendingPaymentsAlert(repos.Payment, alerterSvc, a.Log)
		scheduler.Register(pendingAlert)
		a.Log.Info("pending payments alert job registered")
	}

	return scheduler
}

// registerBotCommands регистрирует команды бота в Telegram
func (a *App) registerBotCommands(ctx context.Context, client *tgAdapter.Client) error {
	commands := []tgAdapter.BotCommand{
		{Command: "start", Description: "Начать работу с ботом"},
		{Command: "sendstars", Description: "Купить Boost за Stars"},
		{Command: "status", Description: "Мой статус"},
		{Command: "terms", Description: "Условия использования"},
		{Command: "support", Description: "Поддержка"},
	}

	return client.SetMyCommands(ctx, commands)
}

// initPostgres инициализирует подключение к PostgreSQL и запускает миграции
func (a *App) initPostgres() (*sqlx.DB, error) {
	db, err := a.Cfg.Postgres.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.Log.Info("postgres connected successfully")

	if err := pg.RunMigrations(db, a.Log); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
