package main

import (
	"embed"
	"io/fs"
	"os"

	"github.com/jbutlerdev/tasks/internal/cli"
)

//go:embed web/templates web/static
var webFiles embed.FS

func main() {
	assets, err := fs.Sub(webFiles, "web")
	if err != nil {
		panic(err)
	}
	if err := cli.NewRootCmd(assets).Execute(); err != nil {
		os.Exit(1)
	}
}
