package main

import (
	"github.com/hdt3213/resp/cli"
	"github.com/hdt3213/resp/lib/logger"
)

func main() {
	if err := cli.Execute(); err != nil {
		logger.Fatal(err)
	}
}
