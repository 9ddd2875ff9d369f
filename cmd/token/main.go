// Команда token выпускает JWT для владельца, подписанный ключом из конфига.
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/token -owner alice
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/magabrotheeeer/subscription-optimizer/internal/config"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/sl"
)

func main() {
	owner := flag.String("owner", "", "owner identifier put into the token subject")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if *owner == "" {
		logger.Error("flag -owner is required")
		os.Exit(2)
	}

	cfg := config.MustLoad()
	token, err := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL).GenerateToken(*owner)
	if err != nil {
		logger.Error("failed to generate token", sl.Err(err))
		os.Exit(1)
	}
	fmt.Println(token)
}
