package main

import (
	"log"

	_ "github.com/joho/godotenv/autoload"

	corecmd "github.com/m3rciful/guidebot/core/cmd"
	"github.com/m3rciful/guidebot/internal/app"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return app.Load(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return app.Bootstrap(cfg.(*app.Config))
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
