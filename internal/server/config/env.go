package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/internportal/internal/flagx"
)

// parseEnv loads an optional dotenv file and then overlays INTERNPORTAL_*
// environment variables. Variables that are not set leave the field alone.
//
// The dotenv file is taken from -envfile/-ef, falling back to ./.env when it
// exists. Values already present in the process environment are not
// overwritten by the file.
func parseEnv(config *Config) {
	if path := flagx.EnvFile(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
