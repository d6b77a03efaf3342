package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload" // load .env before reading config

	"github.com/ClubAdmin/ClubAdmin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
