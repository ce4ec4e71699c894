// Command check-lark posts a sample report card to the configured Lark chat.
// It exercises the same announcer the service uses after each report.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/arziki-reports/internal/config"
	"github.com/garyjia/arziki-reports/internal/domain/entity"
	"github.com/garyjia/arziki-reports/internal/infrastructure/external/lark"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	receiveID := flag.String("to", "", "override lark.receive_id")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *receiveID != "" {
		cfg.Lark.ReceiveID = *receiveID
	}
	if cfg.Lark.AppID == "" || cfg.Lark.AppSecret == "" || cfg.Lark.ReceiveID == "" {
		log.Fatal("LARK_APP_ID, LARK_APP_SECRET and LARK_RECEIVE_ID (or -to) are required")
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	client := lark.NewSDKClient(lark.Config{
		AppID:         cfg.Lark.AppID,
		AppSecret:     cfg.Lark.AppSecret,
		ReceiveIDType: cfg.Lark.ReceiveIDType,
		ReceiveID:     cfg.Lark.ReceiveID,
	}, logger)
	announcer := lark.NewAnnouncer(client, cfg.Lark.ReceiveIDType, cfg.Lark.ReceiveID, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := announcer.AnnounceReport(ctx, sampleReport()); err != nil {
		log.Fatalf("Failed to send announcement: %v", err)
	}
	log.Printf("Sample report card sent to %s %s", cfg.Lark.ReceiveIDType, cfg.Lark.ReceiveID)
}

func sampleReport() *entity.Report {
	return &entity.Report{
		ID:     "sample-report",
		Status: entity.ReportStatusGenerated,
		Business: entity.BusinessInfo{
			Name:     "ABC Mart",
			Type:     entity.BusinessTypeSupermarket,
			Location: "Lagos",
			Size:     entity.BusinessSizeMedium,
		},
		Supplier: entity.SupplierInfo{SupplierName: "Fresh Farms", ContactEmail: "orders@freshfarms.test"},
		Products: []entity.ProductLine{{
			Position: 1, Name: "Rice", Quantity: "50", Cost: "20", SellingPrice: "25",
			UnitMargin: "5", MarginPercent: "20.0", StockValue: "1000", LowStock: true,
		}},
		Totals: entity.ReportTotals{
			ProductCount:     1,
			TotalUnits:       "50",
			InventoryCost:    "1000",
			InventoryValue:   "1250",
			PotentialProfit:  "250",
			LowStockProducts: 1,
		},
		CreatedAt: time.Now(),
	}
}
