package main

import (
	"github.com/joho/godotenv"

	"aria/internal/cli"
)

func main() {
	// A missing .env is fine, secrets can come from the environment.
	_ = godotenv.Load()

	cli.Execute()
}
