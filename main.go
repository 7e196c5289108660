package main

import (
	"github.com/joho/godotenv"

	"hragent/cmd"
)

func main() {
	// A local .env may carry OPENAI_API_KEY; real environment variables win.
	_ = godotenv.Load()
	cmd.Execute()
}
