package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"tutorhub/internal/config"
	"tutorhub/internal/database"
	"tutorhub/internal/middleware"
	"tutorhub/internal/modules/arbiter"
	"tutorhub/internal/modules/attendance"
	"tutorhub/internal/modules/auth"
	"tutorhub/internal/modules/booking"
	"tutorhub/internal/modules/dispute"
	"tutorhub/internal/modules/evidence"
	"tutorhub/internal/modules/payments"
	"tutorhub/internal/modules/reporting"
	"tutorhub/internal/modules/schedule"
	"tutorhub/internal/modules/slots"
	"tutorhub/internal/modules/statusfeed"
	jwtsvc "tutorhub/internal/pkg/jwt"
	"tutorhub/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("level=fatal msg=config load failed err=%v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("level=fatal msg=database connect failed err=%v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatalf("level=fatal msg=migration failed err=%v", err)
	}
	if err := db.AutoMigrate(&evidence.Asset{}); err != nil {
		log.Fatalf("level=fatal msg=migration failed err=%v", err)
	}

	userRepo := repository.NewUserRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	disputeRepo := repository.NewDisputeRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	evidenceRepo := evidence.NewRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	hub := statusfeed.NewHub()
	defer hub.Close()
	notifier := statusfeed.NewNotifier(hub)
	wsHandler := statusfeed.NewWSHandler(hub, j)

	evidenceService := evidence.NewService(evidenceRepo, cfg.EvidenceBaseDir, cfg.EvidenceURLBase)
	evidenceHandler := evidence.NewHandler(evidenceService)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	bookingService := booking.NewService(slotRepo, availabilityRepo, userRepo)
	bookingHandler := booking.NewHandler(bookingService)

	paymentsService := payments.NewService(slotRepo, attendanceRepo, ledgerRepo, notifier,
		cfg.PaymentGatewaySecret, cfg.MeetingURLBase, log.Printf)
	paymentsHandler := payments.NewHandler(paymentsService)

	attendanceService := attendance.NewService(slotRepo, attendanceRepo, disputeRepo, evidenceService, notifier)
	attendanceHandler := attendance.NewHandler(attendanceService)

	disputeService := dispute.NewService(slotRepo, attendanceRepo, disputeRepo, evidenceService, notifier)
	disputeHandler := dispute.NewHandler(disputeService)

	arbiterService := arbiter.NewService(disputeRepo, slotRepo, attendanceRepo, ledgerRepo, notifier)
	arbiterHandler := arbiter.NewHandler(arbiterService)

	scheduleService := schedule.NewService(availabilityRepo, slotRepo, ledgerRepo, notifier)
	scheduleHandler := schedule.NewHandler(scheduleService)

	reportingService := reporting.NewService(slotRepo, attendanceRepo, disputeRepo)
	reportingHandler := reporting.NewHandler(reportingService)

	slotsService := slots.NewService(slotRepo, attendanceRepo, disputeRepo)
	slotsHandler := slots.NewHandler(slotsService)

	partyChecker := middleware.NewPartyChecker(slotRepo)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	r.GET("/ws/status", wsHandler.HandleWebSocket)
	r.Static(cfg.EvidenceURLBase, cfg.EvidenceBaseDir)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)

		// gateway callbacks
		gateway := v1.Group("/")
		gateway.Use(middleware.GatewayTokenAuth())
		{
			paymentsHandler.RegisterCallbackRoutes(gateway)
		}

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			disputeHandler.RegisterRoutes(protected)
			scheduleHandler.RegisterRoutes(protected)
			evidenceHandler.RegisterRoutes(protected)
			reportingHandler.RegisterRoutes(protected)

			// slot-scoped endpoints assert party membership server-side
			slotScoped := protected.Group("/")
			slotScoped.Use(partyChecker.CheckSlotParty())
			{
				attendanceHandler.RegisterRoutes(slotScoped)
				slotsHandler.RegisterRoutes(slotScoped)
			}
		}

		// admin
		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(j), middleware.AdminOnly())
		{
			arbiterHandler.RegisterRoutes(admin)
			paymentsHandler.RegisterAdminRoutes(admin)
		}
	}

	log.Printf("level=info msg=starting http server addr=%s env=%s", cfg.HTTPAddr, cfg.AppEnv)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("level=fatal msg=http server stopped err=%v", err)
	}
}
