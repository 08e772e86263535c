package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/lshigami/Quokka/config"
	"github.com/lshigami/Quokka/database"
	_ "github.com/lshigami/Quokka/docs" // Swagger docs - auto-generated
	adminctrl "github.com/lshigami/Quokka/internal/controller/admin"
	authctrl "github.com/lshigami/Quokka/internal/controller/auth"
	studentctrl "github.com/lshigami/Quokka/internal/controller/student"
	wsctrl "github.com/lshigami/Quokka/internal/controller/ws"
	"github.com/lshigami/Quokka/internal/logger"
	"github.com/lshigami/Quokka/internal/middleware"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/lshigami/Quokka/internal/signaling"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Proctored Quiz API
// @version 1.0
// @description Backend for proctored multiple-choice quizzes: classes, question banks, timed attempts with monitoring, and WebRTC signaling for camera supervision.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			database.NewRedis,
			NewGinEngine,
			signaling.NewHub,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewClassRepository,
			repository.NewQuestionRepository,
			repository.NewQuizRepository,
			repository.NewStudentQuizRepository,
			repository.NewAnswerRepository,
			repository.NewResultRepository,
		),

		fx.Provide(
			service.NewRedisTokenStore,
			service.NewTokenService,
			service.NewAuthService,
			service.NewClassService,
			service.NewQuestionService,
			service.NewQuizService,
			service.NewGradingService,
			service.NewAttemptService,
			service.NewResultService,
			service.NewSheetService,
			service.NewQuizStatusScheduler,
		),

		fx.Provide(
			authctrl.NewAuthController,
			adminctrl.NewClassController,
			adminctrl.NewQuestionController,
			adminctrl.NewQuizController,
			adminctrl.NewStudentController,
			studentctrl.NewClassController,
			studentctrl.NewQuizController,
			studentctrl.NewResultController,
			wsctrl.NewSignalingController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(StartScheduler),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)
	registerValidators()

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		switch model.Difficulty(fl.Field().String()) {
		case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
			return true
		}
		return false
	})
}

// RegisterRoutesAndStartServer wires the route table and manages the HTTP
// server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	tokens service.TokenService,
	userRepo repository.UserRepository,
	classRepo repository.ClassRepository,
	quizRepo repository.QuizRepository,
	authCtrl *authctrl.AuthController,
	adminClassCtrl *adminctrl.ClassController,
	adminQuestionCtrl *adminctrl.QuestionController,
	adminQuizCtrl *adminctrl.QuizController,
	adminStudentCtrl *adminctrl.StudentController,
	studentClassCtrl *studentctrl.ClassController,
	studentQuizCtrl *studentctrl.QuizController,
	studentResultCtrl *studentctrl.ResultController,
	signalingCtrl *wsctrl.SignalingController,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authCtrl.Register)
		auth.POST("/login", authCtrl.Login)
		auth.POST("/refresh", authCtrl.Refresh)
		auth.POST("/logout", authCtrl.Logout)

		me := auth.Group("", middleware.RequireAuth(tokens, userRepo))
		me.GET("/profile", authCtrl.Profile)
		me.PUT("/profile", authCtrl.UpdateProfile)
	}

	api.GET("/ws/signaling", signalingCtrl.Connect)

	authed := api.Group("", middleware.RequireAuth(tokens, userRepo))

	admin := authed.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/students", adminStudentCtrl.ListStudents)
		admin.GET("/students/:studentID", adminStudentCtrl.GetStudent)

		admin.POST("/classes", adminClassCtrl.CreateClass)
		admin.GET("/classes", adminClassCtrl.ListClasses)

		adminClass := admin.Group("/classes/:classID", middleware.RequireClassAccess(classRepo))
		adminClass.GET("", adminClassCtrl.GetClass)
		adminClass.PUT("", adminClassCtrl.UpdateClass)
		adminClass.DELETE("", adminClassCtrl.DeleteClass)
		adminClass.POST("/students", adminClassCtrl.EnrollStudents)
		adminClass.DELETE("/students/:studentID", adminClassCtrl.UnenrollStudent)
		adminClass.POST("/students/import", adminClassCtrl.ImportStudents)
		adminClass.GET("/questions", adminClassCtrl.ListQuestions)
		adminClass.POST("/questions/import", adminClassCtrl.ImportQuestions)
		adminClass.GET("/quizzes", adminQuizCtrl.ListByClass)

		admin.POST("/questions", adminQuestionCtrl.CreateQuestion)
		admin.GET("/questions/:questionID", adminQuestionCtrl.GetQuestion)
		admin.PUT("/questions/:questionID", adminQuestionCtrl.UpdateQuestion)
		admin.DELETE("/questions/:questionID", adminQuestionCtrl.DeleteQuestion)

		admin.POST("/quizzes", adminQuizCtrl.CreateQuiz)
		adminQuiz := admin.Group("/quizzes/:quizID", middleware.RequireQuizAccess(quizRepo, classRepo))
		adminQuiz.GET("", adminQuizCtrl.GetQuiz)
		adminQuiz.PUT("", adminQuizCtrl.UpdateQuiz)
		adminQuiz.DELETE("", adminQuizCtrl.DeleteQuiz)
		adminQuiz.POST("/publish", adminQuizCtrl.PublishQuiz)
		adminQuiz.GET("/attempts", adminQuizCtrl.ListAttempts)
		adminQuiz.POST("/attempts/:userID/terminate", adminQuizCtrl.TerminateAttempt)
		adminQuiz.GET("/results", adminQuizCtrl.ListResults)
		adminQuiz.GET("/results/export", adminQuizCtrl.ExportResults)
		adminQuiz.POST("/results/:userID/feedback", adminQuizCtrl.AddFeedback)
	}

	authed.GET("/classes", studentClassCtrl.MyClasses)
	authed.GET("/classes/:classID", middleware.RequireClassAccess(classRepo), studentClassCtrl.GetClass)
	authed.GET("/classes/:classID/quizzes", middleware.RequireClassAccess(classRepo), studentClassCtrl.ClassQuizzes)

	quiz := authed.Group("/quizzes/:quizID", middleware.RequireQuizAccess(quizRepo, classRepo))
	{
		window := middleware.RequireQuizWindow()
		quiz.GET("", studentQuizCtrl.GetQuiz)
		quiz.POST("/start", window, studentQuizCtrl.StartQuiz)
		quiz.POST("/answers", window, studentQuizCtrl.SaveAnswer)
		quiz.POST("/monitor", window, studentQuizCtrl.Monitor)
		quiz.POST("/submit", window, studentQuizCtrl.SubmitQuiz)
		quiz.GET("/attempt", studentQuizCtrl.GetAttempt)
		quiz.GET("/result", studentResultCtrl.QuizResult)
	}

	authed.GET("/results", studentResultCtrl.MyResults)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quiz API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// StartScheduler ties the quiz status sweeper to the application lifecycle.
func StartScheduler(lc fx.Lifecycle, scheduler *service.QuizStatusScheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			scheduler.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Class{},
		&model.Question{},
		&model.Option{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.StudentQuiz{},
		&model.Violation{},
		&model.Answer{},
		&model.Result{},
		&model.ResultAnswer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully")
	return nil
}
