// Package main is the entry point for the NutriPlate API server.
//
// @title           NutriPlate API
// @version         1.0.0
// @description     API for analyzing the nutrition of a family meal.
//
//	A meal description and/or photo is sent to a generative model which itemizes the food,
//	and the totals are compared per consumption unit against the ICMR daily standard.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/nutriplate
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @tag.name        Meals
// @tag.description Meal nutrition analysis
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/guttosm/nutriplate/docs" // swagger docs

	"github.com/guttosm/nutriplate/config"
	"github.com/guttosm/nutriplate/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	application, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := app.NewServer(application.Router, cfg.Server)
	server.OnShutdown(application.Close)

	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
