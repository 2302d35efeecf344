package main

import (
	"github.com/joho/godotenv"

	"github.com/armorline/posture/internal/cli"
)

func main() {
	_ = godotenv.Load()
	cli.Execute()
}
