package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"hk-explorer-be/internal/config"
	"hk-explorer-be/internal/dto"
	"hk-explorer-be/internal/pkg/logger"
	"hk-explorer-be/internal/pkg/serverutils"
	"hk-explorer-be/internal/repository/unitofwork"
	"hk-explorer-be/internal/service"
	"hk-explorer-be/pkg/database"
	"hk-explorer-be/pkg/events"
	"hk-explorer-be/pkg/metrics"
	pktNats "hk-explorer-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{Use: "importer", Short: "Load discovered challenges into the catalog"}

	root.AddCommand(importCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func importCMD() *cobra.Command {
	var file string
	var publish bool

	var cmd = &cobra.Command{
		Use:   "import",
		Short: "Import a JSON file of discovered challenges",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readBatch(file)
			if err != nil {
				return err
			}

			cfg := config.Load()
			db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}

			var publisher events.Publisher = events.NopPublisher{}
			if publish {
				natsPub, err := pktNats.NewPublisher(cmd.Context(), cfg.App.NatsURL)
				if err != nil {
					log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
				} else {
					defer natsPub.Close()
					publisher = natsPub
				}
			}

			importService := service.NewImportService(
				unitofwork.NewRepositoryFactory(db),
				nil,
				publisher,
				logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction()),
				metrics.New(),
			)

			res, err := importService.Import(cmd.Context(), req.Challenges)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			color.New(color.FgGreen).Fprintf(out, "imported %d", res.Imported)
			fmt.Fprint(out, ", ")
			color.New(color.FgYellow).Fprintf(out, "skipped %d\n", res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file holding an array of discovered challenges")
	cmd.Flags().BoolVar(&publish, "publish", false, "announce the import on NATS")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// readBatch accepts either a bare array or {"challenges": [...]}.
func readBatch(path string) (*dto.ImportChallengesRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var req dto.ImportChallengesRequest
	if err := json.Unmarshal(data, &req.Challenges); err != nil {
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := serverutils.ValidateRequest(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

