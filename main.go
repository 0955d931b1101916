package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lostfound-server/handlers"
	"lostfound-server/middleware"
	"lostfound-server/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment configuration")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is not set")
	}

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	if err := client.Ping(context.Background(), nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	// Redis is an optional read cache; the store stays authoritative
	var redisClient *redis.Client
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisDB := 0
		if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
			redisDB, err = strconv.Atoi(redisDBStr)
			if err != nil {
				log.Fatalf("Invalid REDIS_DB value: %v", err)
			}
		}
		redisClient = redis.NewClient(&redis.Options{
			Addr: redisAddr,
			DB:   redisDB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("Connected to Redis")
	}

	uploadDir := getEnv("UPLOAD_DIR", "./files")
	uploadService, err := services.NewUploadService(uploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Initialize services and handlers
	itemService := services.NewItemService(client, getEnv("MONGO_DB", "lostfound_db"), redisClient)
	itemHandler := handlers.NewItemHandler(itemService, uploadService)
	searchHandler := handlers.NewSearchHandler(itemService)

	r := mux.NewRouter()

	allowedOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if originsEnv := os.Getenv("ALLOWED_ORIGINS"); originsEnv != "" {
		allowedOrigins = strings.Split(originsEnv, ",")
	}
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RecoverMiddleware())

	// Item routes
	r.HandleFunc("/item", itemHandler.ListItems).Methods("GET", "OPTIONS")
	r.HandleFunc("/item", itemHandler.CreateItem).Methods("POST", "OPTIONS")
	r.HandleFunc("/item/{id}", itemHandler.GetItem).Methods("GET", "OPTIONS")
	r.HandleFunc("/item/{id}", itemHandler.DeleteItem).Methods("DELETE", "OPTIONS")

	// Search routes
	r.HandleFunc("/search", searchHandler.SearchItems).Methods("GET", "OPTIONS")
	r.HandleFunc("/items/near", searchHandler.NearbyItems).Methods("GET", "OPTIONS")

	// Uploaded photos are served read-only by stored filename
	r.PathPrefix("/files/").Handler(
		http.StripPrefix("/files/", http.FileServer(http.Dir(uploadDir))))

	port := getEnv("PORT", "8080")
	log.Printf("Server starting on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
