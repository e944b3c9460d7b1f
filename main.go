package main

import (
	"fmt"
	"os"

	"github.com/gnzdotmx/videonote/cmd"
	"github.com/gnzdotmx/videonote/internal/utils"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		utils.LogDebug("No .env file found - using environment variables")
	} else {
		utils.LogDebug("Loaded environment variables from .env file")
	}
}

func main() {
	err := cmd.Execute()
	utils.SyncLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", utils.Error("Error:"), err)
		os.Exit(1)
	}
}
