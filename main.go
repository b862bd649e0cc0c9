package main

import (
	"github.com/joho/godotenv"

	"github.com/Sanket-2736/newsreader/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	_ = godotenv.Load()

	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
