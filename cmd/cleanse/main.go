package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/turbot/tailpipe-cleanse/logging"
)

func main() {
	// a .env file is optional
	_ = godotenv.Load()
	logging.Initialize("tailpipe-cleanse")

	os.Exit(Execute())
}
