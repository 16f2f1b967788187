// seed carga un snapshot del catálogo (CSV) en la tabla products de PostgreSQL.
//
// Uso: go run ./cmd/seed [ruta/catalogo.csv] [latin1]
// Por defecto usa CATALOG_FILE. Aplica el esquema embebido antes de insertar.
// Los productos que ya existen se omiten.
package main

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/infrastructure/catalog"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/infrastructure/postgres"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/config"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	path := cfg.App.CatalogFile
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path == "" {
		log.Error().Msg("indique el CSV de catálogo como argumento o en CATALOG_FILE")
		os.Exit(1)
	}
	latin1 := len(os.Args) > 2 && strings.EqualFold(os.Args[2], "latin1")

	products, err := catalog.LoadFile(path, latin1)
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migrar esquema")
	}

	repo := postgres.NewProductRepository(pool)
	created, skipped := 0, 0
	for _, p := range products {
		err := repo.Create(ctx, p)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		default:
			log.Fatal().Err(err).Str("product_id", p.ID).Msg("insertar producto")
		}
	}
	log.Info().Int("creados", created).Int("omitidos", skipped).Str("archivo", path).Msg("catálogo cargado")
}
