// import_products carga productos del catálogo desde un CSV usando el mismo caso de uso
// que POST /api/inventory/products/import.
//
// Uso: go run ./cmd/import_products [--encoding latin1] productos.csv
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/sitetrack-api/internal/application/inventory"
	"github.com/jhoicas/sitetrack-api/internal/application/usecase"
	"github.com/jhoicas/sitetrack-api/internal/infrastructure/cache"
	"github.com/jhoicas/sitetrack-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sitetrack-api/pkg/config"
	"github.com/jhoicas/sitetrack-api/pkg/logger"
)

var encoding string

var rootCmd = &cobra.Command{
	Use:          "import_products <archivo.csv>",
	Short:        "Importa productos del catálogo desde CSV",
	Long:         "Columnas: name, sku, category, description, steps. steps separa títulos con \"|\"; cada paso exige foto after.",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runImport,
}

func init() {
	rootCmd.Flags().StringVar(&encoding, "encoding", "utf8", "codificación del archivo: utf8 | latin1")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr})

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("abrir CSV: %w", err)
	}
	defer f.Close()

	src, err := decoded(f, encoding)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	var locker inventory.ImportLocker
	if cfg.Redis.Address != "" {
		rdb, err := cache.Connect(ctx, cfg.Redis.Address, cfg.Redis.Password)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rdb.Close()
		locker = cache.NewLocker(rdb, 10*time.Minute, 30*time.Second)
	}

	productUC := usecase.NewProductUseCase(
		postgres.NewProductRepository(pool),
		postgres.NewStockRepository(pool),
		postgres.NewWarehouseRepository(pool),
	)
	report, err := inventory.NewImportUseCase(productUC, locker, nil).Import(ctx, src)
	if err != nil {
		return err
	}

	log.Info().
		Int("total", report.Total).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Msg("importación finalizada")

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d filas con error", report.Failed)
	}
	return nil
}

// decoded envuelve r para entregar UTF-8.
func decoded(r io.Reader, enc string) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(enc, "-", "")) {
	case "", "utf8":
		return r, nil
	case "latin1", "iso88591":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("codificación no soportada: %q", enc)
	}
}
