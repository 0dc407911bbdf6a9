package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"codecritical/blog"
	"codecritical/cache"
	"codecritical/catalog"
	"codecritical/common"
	"codecritical/contact"
	"codecritical/database"
	"codecritical/email"
	"codecritical/games"
	"codecritical/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	db := common.ConnectDb()
	if db == nil {
		log.Fatal("Failed to connect to database")
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	logger := common.NewLogger()
	defer logger.Sync()

	router := gin.Default()

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable not set")
	}

	cookieStore := cookie.NewStore([]byte(sessionSecret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   false,
	})

	router.Use(sessions.Sessions("codecritical-session", cookieStore))
	router.Use(cache.Middleware(10 * time.Minute))

	router.LoadHTMLGlob("*/views/*.html")

	router.Static("/public", "./public")

	st := store.NewStore(db)
	rawg := catalog.NewClient(os.Getenv("RAWG_API_KEY"))

	blogModule := blog.NewBlogModule(st, rawg, logger)
	blogModule.RegisterRoutes(router)

	gamesModule := games.NewGamesModule(st, rawg, logger)
	gamesModule.RegisterRoutes(router)

	contactModule := contact.NewContactModule(st, email.NewEmailService(), logger)
	contactModule.RegisterRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
