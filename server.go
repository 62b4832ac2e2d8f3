package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"microblog/api/middleware"
	"microblog/api/routes"
	"microblog/config"
	"microblog/db"
	"microblog/services"

	"github.com/gin-gonic/gin"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	if err := config.LoadConfig(configPath); err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log.Println("Starting server...")

	if err := db.ConnectDB(); err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis необязателен: без него лента читается напрямую из БД,
	// а fan-out выполняется синхронно
	if err := services.InitRedis(); err != nil {
		log.Printf("WARN: Redis unavailable, cache disabled: %v", err)
	} else {
		defer services.CloseRedis()
		services.QueueServiceInstance.StartWorkers(ctx)
	}

	// RabbitMQ тоже необязателен: push-события уходят напрямую в WebSocket
	if err := services.InitRabbitMQ(); err != nil {
		log.Printf("WARN: RabbitMQ unavailable, using direct WebSocket push: %v", err)
	} else {
		defer services.CloseRabbitMQ()
		if err := services.StartFeedEventConsumer(ctx, "feed_events_ws"); err != nil {
			log.Printf("WARN: failed to start feed event consumer: %v", err)
		}
	}

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(middleware.PrometheusMiddleware("microblog"))

	routes.PublicApi(router)

	addr := ":8080"
	if config.AppConfig.Backend.Port != 0 {
		addr = fmt.Sprintf(":%d", config.AppConfig.Backend.Port)
	}
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}
