package main

import (
	"os"

	"github.com/prasetyowira/qrgen/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:], os.Stdout, os.Stderr))
}
