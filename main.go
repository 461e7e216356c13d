package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Set properties of the predefined Logger. The prefix tags every line so
	// the API's output is identifiable when several services share a log stream.
	log.SetPrefix("ms/mealsnap-go-api: ")
	log.SetFlags(0)

	// .env is optional in production — the platform injects env vars there.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	pool := getDBPool()
	defer pool.Close()

	h := newHandler(pool)

	fmt.Println("Starting gin app...")

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	router.Run("localhost:" + port)
}
