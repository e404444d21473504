package main

import (
	"github.com/oalprint/queuemap/pkg/cli"
)

func main() {
	cli.Execute()
}
