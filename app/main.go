package main

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"needy/config"
	"needy/services/needy/delivery"
	"needy/services/needy/repository"
	"needy/services/needy/usecase"
)

var log *logrus.Logger
var wg sync.WaitGroup

func main() {
	log = config.GetLogrusInstance()

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using process environment")
	}

	startHTTP()
}

func startHTTP() {
	log.Info("Starting HTTP")
	app := fiber.New(config.GetFiberConfig())

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetCORSOrigins(),
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	db, err := config.BootDB(log)
	if err != nil {
		log.Fatalf("Failed to boot DB: %v", err)
		return
	}

	meow, err := config.InitSender(log)
	if err != nil {
		log.Errorf("WhatsApp sender unavailable, codes will only be logged: %v", err)
	}

	timeOut := config.GetContextTimeout()
	policies := config.GetPolicies()

	// repositories and usecases
	registerRepo := repository.NewRegisterRepository(db, log)
	adminRepo := repository.NewAdminRepository(db, log)
	messageRepo := repository.NewMessageRepository(db, log)
	statsRepo := repository.NewStatsRepository(db, log)
	phoneChecker := repository.NewPhoneChecker(config.GetPhoneGuard(), db, registerRepo, log)
	senderRepo := repository.NewSender(meow, config.GetWACountryCode(), config.GetAppName(), log)

	registerUC := usecase.NewRegisterUseCase(registerRepo, adminRepo, phoneChecker, policies, config.GetAtomicRegistration(), timeOut, log)
	goodUC := usecase.NewGoodUseCase(registerRepo, adminRepo, senderRepo, policies, timeOut, log)
	adminUC := usecase.NewAdminUseCase(adminRepo, policies, timeOut, log)
	authUC := usecase.NewAuthUseCase(adminRepo, timeOut)
	messageUC := usecase.NewMessageUseCase(messageRepo, policies, timeOut)
	statsUC := usecase.NewStatsUseCase(statsRepo, adminRepo, timeOut)

	// delivery
	delivery.NewAuthDelivery(app, authUC)
	delivery.NewRegisterDelivery(app, registerUC, statsUC)
	delivery.NewChildDelivery(app, registerUC)
	delivery.NewGoodDelivery(app, goodUC)
	delivery.NewAdminDelivery(app, adminUC)
	delivery.NewMessageDelivery(app, messageUC)

	log.WithFields(logrus.Fields{
		"phone_guard":         config.GetPhoneGuard(),
		"atomic_registration": config.GetAtomicRegistration(),
		"child_age_edit":      policies.ChildAgeEdit.String(),
		"good_quantity_edit":  policies.GoodQuantityEdit.String(),
	}).Info("Registration settings")

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infof("Starting HTTP server on port %s", config.GetFiberHttpPort())
		if err := app.Listen(config.GetFiberListenAddress()); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	<-signalChan

	log.Info("Shutting down the server...")

	if err := app.Shutdown(); err != nil {
		log.Errorf("Error during server shutdown: %v", err)
	}
	if meow != nil {
		meow.Disconnect()
	}

	wg.Wait()
	log.Info("Server shut down gracefully")
}
