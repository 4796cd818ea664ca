package main

import (
	"log"
	"net/http"
	"os"

	raven "github.com/getsentry/raven-go"
	"github.com/joho/godotenv"

	"github.com/gatekeeper-page/newsletter-backend/api"
	"github.com/gatekeeper-page/newsletter-backend/db"
	"github.com/gatekeeper-page/newsletter-backend/email"
	"github.com/gatekeeper-page/newsletter-backend/models"
	"github.com/gatekeeper-page/newsletter-backend/util"
)

func main() {
	godotenv.Load()
	raven.SetDSN(os.Getenv("SENTRY_DSN"))

	cfg, err := db.LoadEnvironmentVariables()
	if err != nil {
		log.Fatal(err)
	}
	sqldb, err := db.InitSQLDatabase(cfg)
	if err != nil {
		log.Fatal(err)
	}

	emailConfig, err := email.MakeConfigFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	varErrs := util.Errors{}
	secret := util.RequireEnv("HMAC_SECRET", &varErrs)
	redirectURL := util.RequireEnv("SUCCESS_REDIRECT_URL", &varErrs)
	if len(varErrs) > 0 {
		log.Fatal(varErrs)
	}

	a := api.API{
		Database:    sqldb,
		Emailer:     emailConfig,
		Signer:      models.NewSigner(secret),
		RedirectURL: redirectURL,
	}
	mux := http.NewServeMux()
	mainHandler := a.RegisterHandlers(mux)

	portString, err := util.ValidPort(cfg.Port)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Serving on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(portString, mainHandler))
}
