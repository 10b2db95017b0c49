package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminLoginHandler "github.com/m04kA/salon-booking/internal/api/handlers/admin_login"
	clientsHandler "github.com/m04kA/salon-booking/internal/api/handlers/clients"
	createBookingHandler "github.com/m04kA/salon-booking/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/salon-booking/internal/api/handlers/delete_booking"
	galleryHandler "github.com/m04kA/salon-booking/internal/api/handlers/gallery"
	getAvailableSlotsHandler "github.com/m04kA/salon-booking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/salon-booking/internal/api/handlers/get_booking"
	listBookingsHandler "github.com/m04kA/salon-booking/internal/api/handlers/list_bookings"
	scheduleHandler "github.com/m04kA/salon-booking/internal/api/handlers/schedule"
	servicesHandler "github.com/m04kA/salon-booking/internal/api/handlers/services"
	staffHandler "github.com/m04kA/salon-booking/internal/api/handlers/staff"
	updateBookingStatusHandler "github.com/m04kA/salon-booking/internal/api/handlers/update_booking_status"
	"github.com/m04kA/salon-booking/internal/api/middleware"
	"github.com/m04kA/salon-booking/internal/config"
	"github.com/m04kA/salon-booking/internal/infra/filestore"
	"github.com/m04kA/salon-booking/internal/infra/lock"
	bookingRepo "github.com/m04kA/salon-booking/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/salon-booking/internal/infra/storage/catalog"
	clientRepo "github.com/m04kA/salon-booking/internal/infra/storage/client"
	galleryRepo "github.com/m04kA/salon-booking/internal/infra/storage/gallery"
	"github.com/m04kA/salon-booking/internal/infra/storage/migrations"
	scheduleRepo "github.com/m04kA/salon-booking/internal/infra/storage/schedule"
	"github.com/m04kA/salon-booking/internal/integrations/whatsapp"
	"github.com/m04kA/salon-booking/internal/seed"
	authService "github.com/m04kA/salon-booking/internal/service/auth"
	bookingsService "github.com/m04kA/salon-booking/internal/service/bookings"
	catalogService "github.com/m04kA/salon-booking/internal/service/catalog"
	clientsService "github.com/m04kA/salon-booking/internal/service/clients"
	galleryService "github.com/m04kA/salon-booking/internal/service/gallery"
	scheduleService "github.com/m04kA/salon-booking/internal/service/schedule"
	createBookingUC "github.com/m04kA/salon-booking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/salon-booking/internal/usecase/get_available_slots"
	"github.com/m04kA/salon-booking/internal/usecase/snapshot"
	"github.com/m04kA/salon-booking/pkg/logger"
	"github.com/m04kA/salon-booking/pkg/metrics"
	"github.com/m04kA/salon-booking/pkg/sqlbuilder"
	"github.com/m04kA/salon-booking/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	hashPin := flag.String("hash-pin", "", "print bcrypt hash of the given admin PIN and exit")
	flag.Parse()

	// Режим подготовки auth.admin_pin_hash: конфигурация не нужна
	if *hashPin != "" {
		hash, err := authService.HashPin(*hashPin)
		if err != nil {
			fmt.Printf("Failed to hash PIN: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level, logger.Options{Pretty: cfg.Logs.Pretty})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting salon-booking...")
	log.Info("Configuration loaded from %s (storage=%s)", *configPath, cfg.Storage.Driver)

	// Подключаемся к базе данных
	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	if err := migrations.Apply(startupCtx, db, cfg.Storage.Driver); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}
	log.Info("Database schema is up to date")

	qb := sqlbuilder.New(cfg.Storage.Driver)
	// SQLite и так сериализует запись, уровень изоляции ему не передаётся
	txMgr := txmanager.New(db, cfg.Storage.Driver == config.DriverPostgres)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(db, qb)
	catalogRepository := catalogRepo.NewRepository(db, qb)
	clientRepository := clientRepo.NewRepository(db, qb)
	galleryRepository := galleryRepo.NewRepository(db, qb)
	scheduleRepository := scheduleRepo.NewRepository(db, qb)

	// Начальные данные салона (только для пустой базы)
	if cfg.Seed.File != "" {
		seedFile, err := seed.Load(cfg.Seed.File)
		if err != nil {
			log.Fatal("Failed to load seed file: %v", err)
		}
		seeder := seed.NewSeeder(scheduleRepository, catalogRepository, txMgr, log)
		applied, err := seeder.Apply(startupCtx, seedFile)
		if err != nil {
			log.Fatal("Failed to seed database: %v", err)
		}
		if applied {
			log.Info("Database seeded from %s", cfg.Seed.File)
		}
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	registry := prometheus.NewRegistry()
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, registry)
		go metricsCollector.CollectDBStats(db, 15*time.Second, stopMetricsCh)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Блокировка дня при создании бронирования
	var dayLocker lock.Locker
	lockWait := time.Duration(cfg.Redis.LockWaitMs) * time.Millisecond
	if cfg.Redis.Enabled {
		redisClient, err := lock.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()

		dayLocker = lock.NewRedisLocker(redisClient, time.Duration(cfg.Redis.LockTTLMs)*time.Millisecond, lockWait)
		log.Info("Using redis day lock (addr=%s)", cfg.Redis.Addr)
	} else {
		dayLocker = lock.NewLocalLocker(lockWait)
		log.Info("Using in-process day lock")
	}

	// Хранилище файлов галереи
	files, err := filestore.New(cfg.Gallery.Dir, cfg.Gallery.ThumbWidth, int64(cfg.Gallery.MaxUploadMB)<<20)
	if err != nil {
		log.Fatal("Failed to prepare gallery dir: %v", err)
	}

	// Инициализируем сервисы
	snapshotLoader := snapshot.NewLoader(scheduleRepository, catalogRepository)
	authSvc := authService.NewService(
		cfg.Auth.AdminPinHash,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
		log,
	)
	bookingSvc := bookingsService.NewService(bookingRepository, txMgr, dayLocker, cfg.Booking.StrictStatusTransitions, log)
	catalogSvc := catalogService.NewService(catalogRepository, bookingRepository, txMgr, log)
	clientSvc := clientsService.NewService(clientRepository, bookingRepository, txMgr, log)
	gallerySvc := galleryService.NewService(galleryRepository, files, cfg.Gallery.PublicPrefix, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, txMgr, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		clientRepository,
		snapshotLoader,
		dayLocker,
		txMgr,
		whatsapp.NewLinkBuilder(cfg.WhatsApp.BaseURL),
		metricsCollector,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		snapshotLoader,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	adminLogin := adminLoginHandler.NewHandler(authSvc, log)
	servicesH := servicesHandler.NewHandler(catalogSvc, log)
	staffH := staffHandler.NewHandler(catalogSvc, log)
	scheduleH := scheduleHandler.NewHandler(scheduleSvc, log)
	clientsH := clientsHandler.NewHandler(clientSvc, log)
	galleryH := galleryHandler.NewHandler(gallerySvc, int64(cfg.Gallery.MaxUploadMB)<<20, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover(log), middleware.Logging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// Файлы галереи
	galleryPrefix := strings.TrimRight(cfg.Gallery.PublicPrefix, "/") + "/"
	r.PathPrefix(galleryPrefix).Handler(
		http.StripPrefix(galleryPrefix, http.FileServer(http.Dir(files.Dir()))),
	).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Расписание и каталог
	api.HandleFunc("/schedule", scheduleH.Get).Methods(http.MethodGet)
	api.HandleFunc("/services", servicesH.List).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}", servicesH.Get).Methods(http.MethodGet)
	api.HandleFunc("/staff", staffH.List).Methods(http.MethodGet)
	api.HandleFunc("/staff/{staffId}", staffH.Get).Methods(http.MethodGet)
	api.HandleFunc("/gallery", galleryH.List).Methods(http.MethodGet)

	// Свободные слоты и запись
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Вход администратора
	api.HandleFunc("/admin/login", adminLogin.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют Authorization: Bearer <token>)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(authSvc, log))

	// --- Бронирования ---
	admin.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)

	// --- Услуги ---
	admin.HandleFunc("/services", servicesH.ListAll).Methods(http.MethodGet)
	admin.HandleFunc("/services", servicesH.Create).Methods(http.MethodPost)
	admin.HandleFunc("/services/{serviceId}", servicesH.Update).Methods(http.MethodPatch)
	admin.HandleFunc("/services/{serviceId}", servicesH.Delete).Methods(http.MethodDelete)

	// --- Мастера ---
	admin.HandleFunc("/staff", staffH.ListAll).Methods(http.MethodGet)
	admin.HandleFunc("/staff", staffH.Create).Methods(http.MethodPost)
	admin.HandleFunc("/staff/{staffId}", staffH.Update).Methods(http.MethodPatch)
	admin.HandleFunc("/staff/{staffId}", staffH.Delete).Methods(http.MethodDelete)

	// --- Расписание и настройки ---
	admin.HandleFunc("/schedule/hours", scheduleH.ReplaceHours).Methods(http.MethodPut)
	admin.HandleFunc("/schedule/blocked-dates", scheduleH.ListBlockedDates).Methods(http.MethodGet)
	admin.HandleFunc("/schedule/blocked-dates", scheduleH.AddBlockedDate).Methods(http.MethodPost)
	admin.HandleFunc("/schedule/blocked-dates/{date}", scheduleH.DeleteBlockedDate).Methods(http.MethodDelete)
	admin.HandleFunc("/settings", scheduleH.GetSettings).Methods(http.MethodGet)
	admin.HandleFunc("/settings", scheduleH.UpdateSettings).Methods(http.MethodPatch)

	// --- Клиенты ---
	admin.HandleFunc("/clients", clientsH.List).Methods(http.MethodGet)
	admin.HandleFunc("/clients/{clientId}", clientsH.Get).Methods(http.MethodGet)
	admin.HandleFunc("/clients/{clientId}/notes", clientsH.UpdateNotes).Methods(http.MethodPut)
	admin.HandleFunc("/clients/{clientId}", clientsH.Delete).Methods(http.MethodDelete)

	// --- Галерея ---
	admin.HandleFunc("/gallery", galleryH.Upload).Methods(http.MethodPost)
	admin.HandleFunc("/gallery/{itemId}", galleryH.Delete).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// openDatabase открывает sqlite файл или пул соединений postgres
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err = sql.Open(sqlbuilder.DriverPostgres, cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)
	default:
		// внешние ключи в sqlite выключены по умолчанию
		db, err = sql.Open(sqlbuilder.DriverSQLite, cfg.SQLite.Path+"?_foreign_keys=on&_busy_timeout=5000")
		if err != nil {
			return nil, err
		}
		// одна запись за раз, иначе "database is locked"
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Storage.Driver, err)
	}

	return db, nil
}
