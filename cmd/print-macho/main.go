package main

import (
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"

	"github.com/appsworld/print-macho/cmd/print-macho/cmd"
)

func main() {
	log.SetHandler(cli.Default)

	if err := cmd.NewRootCmd().Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
