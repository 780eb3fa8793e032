package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"coursehub/config"
	"coursehub/database"
	"coursehub/mailer"
	"coursehub/media"
	"coursehub/middleware"
	"coursehub/repository"
	"coursehub/utils"

	courseController "coursehub/controllers/course"
	userController "coursehub/controllers/user"
	courseRoutes "coursehub/routers/courseRoutes"
	enrollmentRoutes "coursehub/routers/enrollmentRoutes"
	userRoutes "coursehub/routers/userRoutes"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	mediaStore, err := media.NewS3Store(media.S3Config{
		AccessKey: cfg.SpacesKey,
		SecretKey: cfg.SpacesSecret,
		Bucket:    cfg.SpacesBucket,
		Region:    cfg.SpacesRegion,
		Endpoint:  cfg.SpacesEndpoint,
		CDNURL:    cfg.SpacesCDNURL,
	})
	if err != nil {
		log.Fatalf("Failed to set up media store: %v", err)
	}

	otpMailer := mailer.NewSendGridMailer(cfg.SendGridKey, cfg.EmailSender, cfg.SenderName)

	userRepo := repository.NewUserRepository(db, cfg.SaltRound)
	otpRepo := repository.NewOTPRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	userCtrl := userController.New(cfg, userRepo, otpRepo, otpMailer, mediaStore)
	courseCtrl := courseController.New(userRepo, courseRepo, enrollmentRepo, mediaStore)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	auth := middleware.AuthMiddleware(cfg.JWTKey)

	userRoutes.SetupUserRoutes(app, auth, userCtrl)
	courseRoutes.SetupCourseRoutes(app, auth, courseCtrl)
	enrollmentRoutes.SetupEnrollmentRoutes(app, auth, courseCtrl)

	// TTL for pending OTP records
	sweeper := utils.StartOTPSweeper(otpRepo)
	defer sweeper.Stop()

	log.Printf("Server is running on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
