package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"staffdesk/internal/config"
	"staffdesk/internal/domain/models"
	"staffdesk/internal/repository"

	"github.com/joho/godotenv"
)

var sampleEmployees = []models.Employee{
	{Name: "Alice Zhang", Position: "Software Engineer", Salary: 125000},
	{Name: "Bob Martin", Position: "Product Manager", Salary: 118000},
	{Name: "Carla Souza", Position: "Designer", Salary: 96000},
	{Name: "Dmitri Ivanov", Position: "Data Analyst", Salary: 88000},
	{Name: "Esther Okafor", Position: "Engineering Manager", Salary: 152000},
	{Name: "Farid Haddad", Position: "Support Specialist", Salary: 61000},
}

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop the employees table and recreate it before seeding")
	clearData := flag.Bool("clear-data", false, "Delete all employees before seeding")
	schemaOnly := flag.Bool("schema-only", false, "Only create the schema, don't insert sample employees")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	store, closeStore, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer closeStore()

	if *dropTables {
		if err := store.DropTable(ctx); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		if err := store.Migrate(ctx); err != nil {
			log.Fatalf("Failed to recreate schema: %v", err)
		}
		logger.Info("tables dropped and recreated", "table_prefix", cfg.TablePrefix)
	}

	if *schemaOnly {
		logger.Info("schema ready", "table_prefix", cfg.TablePrefix)
		return
	}

	existing, err := store.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list employees: %v", err)
	}

	if *clearData && len(existing) > 0 {
		ids := make([]int64, len(existing))
		for i, e := range existing {
			ids[i] = e.ID
		}
		deleted, err := store.DeleteByIDs(ctx, ids)
		if err != nil {
			log.Fatalf("Failed to clear employees: %v", err)
		}
		logger.Info("cleared employees", "count", len(deleted))
		existing = nil
	}

	if len(existing) > 0 {
		logger.Info("employees already present, skipping seed", "count", len(existing))
		return
	}

	for _, sample := range sampleEmployees {
		employee := sample
		if err := store.Create(ctx, &employee); err != nil {
			log.Fatalf("Failed to create employee %q: %v", sample.Name, err)
		}
		logger.Info("employee created", "id", employee.ID, "name", employee.Name)
	}

	logger.Info("seed complete",
		"environment", cfg.Environment,
		"table_prefix", cfg.TablePrefix,
		"count", len(sampleEmployees),
	)
}
