package app

import (
	"regexp"
	"time"

	"plog/internal/config"
	"plog/internal/middleware"
	"plog/internal/model"
	"plog/internal/repository"
	"plog/internal/service"
	"plog/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var nicknamePattern = regexp.MustCompile(`^[a-zA-Z0-9가-힣_-]{2,20}$`)

func NewRouter(cfg *config.Config) *gin.Engine {
	// Set Gin mode
	if cfg.ServerPort == "5000" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	registerValidations()

	// CORS middleware
	r.Use(corsMiddleware(cfg.ClientURL))

	// Rate limiting middleware (if enabled)
	if cfg.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		r.Use(rateLimiter.Middleware())
		util.Sugar.Infof("Rate limiting enabled: %d req/sec, burst: %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}

	// Auto migrate
	if err := db.AutoMigrate(&model.Member{}, &model.Post{}, &model.Comment{}, &model.Image{}); err != nil {
		panic("Failed to migrate database: " + err.Error())
	}

	// Initialize Redis with retry logic
	redisClient := initRedisWithRetry(cfg)

	// Initialize RabbitMQ with retry logic
	rabbitMQ := initRabbitMQWithRetry(cfg)

	// Initialize email worker if RabbitMQ is available
	if rabbitMQ != nil {
		emailWorker := service.NewEmailWorker(service.NewEmailService(cfg), rabbitMQ)
		if err := emailWorker.Start(); err != nil {
			util.Sugar.Warnf("Failed to start email worker: %v", err)
		} else {
			util.Sugar.Info("Email worker started successfully")
		}
	} else {
		util.Sugar.Info("Email worker not started - RabbitMQ connection failed. Welcome emails will be skipped.")
	}

	// Initialize Cloudinary client
	var cloudinaryClient *util.CloudinaryClient
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cloudinaryClient, err = util.NewCloudinaryClient(cfg)
		if err != nil {
			util.Sugar.Warnf("Failed to initialize Cloudinary: %v. Image uploads will be disabled.", err)
		} else {
			util.Sugar.Info("Cloudinary initialized successfully")
		}
	} else {
		util.Sugar.Info("Cloudinary credentials not configured. Image uploads will be disabled.")
	}

	// Initialize repositories
	memberRepo := repository.NewMemberRepository(db)
	postRepo := repository.NewPostRepository(db, redisClient)
	commentRepo := repository.NewCommentRepository(db)
	imageRepo := repository.NewImageRepository(db)

	// Initialize services
	authService := service.NewAuthService(memberRepo, redisClient, rabbitMQ, cfg.JWTSecret)
	memberService := service.NewMemberService(memberRepo)
	commentService := service.NewCommentService(commentRepo, postRepo, memberRepo)
	postService := service.NewPostService(postRepo, memberRepo, commentService)
	imageService := service.NewImageService(imageRepo, memberRepo, cloudinaryClient)

	// Initialize handlers
	authHandler := NewAuthHandler(authService, cfg.JWTSecret)
	memberHandler := NewMemberHandler(memberService)
	postHandler := NewPostHandler(postService)
	commentHandler := NewCommentHandler(commentService)
	imageHandler := NewImageHandler(imageService)

	// API routes
	api := r.Group("/api/v1")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.SignUp)
			auth.POST("/signin", authHandler.SignIn)
			auth.POST("/reissue", authHandler.Reissue)

			// Protected routes
			auth.POST("/signout", authHandler.AuthMiddleware(), authHandler.SignOut)
		}

		// Member routes
		members := api.Group("/members")
		{
			// Protected routes must be registered before the nickname wildcard
			members.GET("/me", authHandler.AuthMiddleware(), memberHandler.GetMe)
			members.PUT("/me/nickname", authHandler.AuthMiddleware(), memberHandler.UpdateNickname)
			members.PUT("/me/profile-image", authHandler.AuthMiddleware(), imageHandler.SetProfileImage)

			// Public routes
			members.GET("/:nickname", memberHandler.GetMemberByNickname)
		}

		// Post routes
		posts := api.Group("/posts")
		{
			// Public routes
			posts.GET("", postHandler.ListPosts)

			// Post comments route (must be before /:id route to avoid conflict)
			posts.GET("/:id/comments", commentHandler.GetCommentsByPost)

			// Post detail route (wildcard route - must be last)
			posts.GET("/:id", postHandler.GetPost)

			// Protected routes
			posts.Use(authHandler.AuthMiddleware())
			{
				posts.POST("", postHandler.CreatePost)
				posts.PUT("/:id", postHandler.UpdatePost)
				posts.DELETE("/:id", postHandler.DeletePost)
				posts.POST("/:id/comments", commentHandler.CreateComment)
			}
		}

		// Comment routes
		comments := api.Group("/comments")
		{
			// Public routes
			comments.GET("/:id/replies", commentHandler.GetReplies)

			// Protected routes
			comments.Use(authHandler.AuthMiddleware())
			{
				comments.PUT("/:id", commentHandler.UpdateComment)
				comments.DELETE("/:id", commentHandler.DeleteComment)
			}
		}

		// Image routes
		images := api.Group("/images")
		{
			images.Use(authHandler.AuthMiddleware())
			{
				images.POST("", imageHandler.UploadImage)
				images.POST("/batch", imageHandler.UploadImages)
			}
		}
	}

	return r
}

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("nickname", func(fl validator.FieldLevel) bool {
			return nicknamePattern.MatchString(fl.Field().String())
		})
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
}

// initRedisWithRetry attempts to connect to Redis with exponential backoff retry
func initRedisWithRetry(cfg *config.Config) *util.RedisClient {
	maxRetries := 10
	initialDelay := 2 * time.Second
	maxDelay := 30 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		redisClient, err := util.NewRedisClient(cfg)
		if err == nil {
			util.Sugar.Infof("Redis connected successfully on attempt %d", attempt)
			return redisClient
		}

		if attempt < maxRetries {
			delay := initialDelay * time.Duration(1<<uint(attempt-1))
			if delay > maxDelay {
				delay = maxDelay
			}

			util.Sugar.Warnf("Failed to connect to Redis (attempt %d/%d): %v. Retrying in %v...", attempt, maxRetries, err, delay)
			time.Sleep(delay)
		} else {
			util.Sugar.Warnf("Failed to connect to Redis after %d attempts: %v. Caching will be disabled.", maxRetries, err)
		}
	}

	return nil
}

// initRabbitMQWithRetry attempts to connect to RabbitMQ with exponential backoff retry
func initRabbitMQWithRetry(cfg *config.Config) *util.RabbitMQClient {
	maxRetries := 5
	initialDelay := 2 * time.Second
	maxDelay := 30 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		rabbitMQ, err := util.NewRabbitMQClient(cfg)
		if err == nil {
			util.Sugar.Infof("RabbitMQ connected successfully on attempt %d", attempt)
			return rabbitMQ
		}

		if attempt < maxRetries {
			delay := initialDelay * time.Duration(1<<uint(attempt-1))
			if delay > maxDelay {
				delay = maxDelay
			}

			util.Sugar.Warnf("Failed to connect to RabbitMQ (attempt %d/%d): %v. Retrying in %v...", attempt, maxRetries, err, delay)
			time.Sleep(delay)
		} else {
			util.Sugar.Warnf("Failed to connect to RabbitMQ after %d attempts: %v. Email sending will be disabled.", maxRetries, err)
		}
	}

	return nil
}

func corsMiddleware(clientURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin == clientURL {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", clientURL)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
