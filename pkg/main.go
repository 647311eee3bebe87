package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	pkg "git.solsynth.dev/hypernet/circle/pkg/internal"
	"git.solsynth.dev/hypernet/circle/pkg/internal/cache"
	"git.solsynth.dev/hypernet/circle/pkg/internal/gap"
	"github.com/fatih/color"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/grpc"
	"git.solsynth.dev/hypernet/circle/pkg/internal/http"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString("  ____ _          _\n / ___(_)_ __ ___| | ___\n| |   | | '__/ __| |/ _ \\\n| |___| | | | (__| |  __/\n \\____|_|_|  \\___|_|\\___|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Hypernet.Circle"), pkg.AppVersion)
	fmt.Printf("The social graph service in Hypernet\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}
	if len(viper.GetString("security.jwt_secret")) == 0 {
		log.Fatal().Msg("An error occurred when loading settings, security.jwt_secret is required.")
	}

	// Initialize cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	// Connect to event broker
	if err := gap.InitializeToBroker(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connecting to event broker...")
	}

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Prepare media store
	if err := services.InitializeMediaStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when preparing media store.")
	}

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", services.DoLikeCounterAudit)
	quartz.AddFunc("@every 60m", services.DoRevokedSessionCleanup)
	quartz.Start()

	// Server
	server := http.NewServer()
	go server.Listen()

	rpc := grpc.NewGrpc()
	go func() {
		if err := rpc.Listen(); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when starting gRPC server...")
		}
	}()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
	rpc.Stop()
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("An error occurred when shutting down server...")
	}
	gap.Close()
}
