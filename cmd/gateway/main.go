// Command gateway runs the claim gateway HTTP server and its maintenance
// subcommands.
//
// @title                     Claim Gateway API
// @version                   1.0
// @description               Web chat, Telegram and API-key channels in front of the Gemini responder and the Ukweli verifier.
// @BasePath                  /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in                        header
// @name                      X-API-Key
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
