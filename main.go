package main

import (
	"github.com/rkatmsl/smaianalysis/cmd"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cmd.Execute()
}
