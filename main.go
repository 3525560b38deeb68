package main

import (
	"github.com/samarpan-samaj/community-backend/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; config.yaml is the source of truth.
	_ = godotenv.Load()

	cmd.Run()
}
