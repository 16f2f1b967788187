// token emite un JWT firmado con JWT_SECRET para pruebas manuales contra la API.
//
// Uso: go run ./cmd/token <rol> <user_id> [store_id]
// rol: customer | staff | admin. store_id es obligatorio para staff y admin.
package main

import (
	"fmt"
	"os"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/config"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/jwt"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("token")

	if len(os.Args) < 3 {
		log.Error().Msg("uso: token <rol> <user_id> [store_id]")
		os.Exit(2)
	}
	role, userID := os.Args[1], os.Args[2]
	storeID := ""
	if len(os.Args) > 3 {
		storeID = os.Args[3]
	}

	switch role {
	case entity.RoleCustomer:
		storeID = ""
	case entity.RoleStaff, entity.RoleAdmin:
		if storeID == "" {
			log.Error().Str("role", role).Msg("el personal necesita store_id")
			os.Exit(2)
		}
	default:
		log.Error().Str("role", role).Msg("rol desconocido")
		os.Exit(2)
	}

	token, err := jwt.Generate(cfg.JWT.Secret, userID, storeID, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Msg("generar token")
	}
	log.Debug().Str("user_id", userID).Str("role", role).Int("exp_minutes", cfg.JWT.Expiration).Msg("token emitido")
	fmt.Println(token)
}
