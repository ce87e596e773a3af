package main

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_pos/api"
	"api_pos/internal/config"
	"api_pos/internal/operator"
)

func main() {
	cfg := config.Load()
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	backends := api.LocalBackends()
	if cfg.MongoURI != "" {
		db, err := config.ConnectMongo(cfg.MongoURI, cfg.DBName)
		if err != nil {
			panic(fmt.Errorf("error connecting to mongodb: %v", err))
		}
		backends, err = api.MongoBackends(db)
		if err != nil {
			panic(fmt.Errorf("error preparing mongodb backends: %v", err))
		}
		logger.Info("using mongodb storage", zap.String("db", cfg.DBName))
	} else {
		logger.Info("using in-memory storage")
	}

	if cfg.SeedAdminUser != "" && cfg.SeedAdminPass != "" {
		dir := operator.NewDirectory(backends.Operators, logger)
		if _, err := dir.Bootstrap(cfg.SeedAdminUser, cfg.SeedAdminPass); err != nil {
			if !errors.Is(err, operator.ErrNotEmpty) {
				panic(fmt.Errorf("error seeding admin: %v", err))
			}
		} else {
			logger.Info("seeded bootstrap admin", zap.String("username", cfg.SeedAdminUser))
		}
	}

	r := gin.Default()
	api.InitRoutesWith(r, backends)

	if err := r.Run(cfg.Addr); err != nil {
		panic(fmt.Errorf("error trying to start server: %v", err))
	}
}
