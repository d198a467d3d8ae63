package main

import (
	"fmt"
	"os"

	"github.com/propwise/marketplace-service/internal/auth"
	"github.com/propwise/marketplace-service/internal/config"
	"github.com/propwise/marketplace-service/internal/db"
	"github.com/propwise/marketplace-service/internal/excel"
	httphandler "github.com/propwise/marketplace-service/internal/http"
	"github.com/propwise/marketplace-service/internal/http/middleware"
	"github.com/propwise/marketplace-service/internal/logger"
	"github.com/propwise/marketplace-service/internal/pdf"
	"github.com/propwise/marketplace-service/internal/repository"
	"github.com/propwise/marketplace-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	ticketRepo := repository.NewTicketRepository(database)
	bidRepo := repository.NewBidRepository(database)
	workOrderRepo := repository.NewWorkOrderRepository(database)
	partRepo := repository.NewPartRepository(database)
	invoiceRepo := repository.NewInvoiceRepository(database)

	ticketService := service.NewTicketService(ticketRepo)
	bidService := service.NewBidService(bidRepo, ticketRepo)
	workOrderService := service.NewWorkOrderService(workOrderRepo, ticketRepo)
	partService := service.NewPartService(partRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, workOrderRepo, ticketRepo, pdf.NewGenerator())
	reportService := service.NewReportService(bidRepo, ticketRepo, excel.NewGenerator())

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(
		ticketService,
		bidService,
		workOrderService,
		partService,
		invoiceService,
		reportService,
		cfg,
		log,
	)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting marketplace service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
