package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/glacierkeep/internal/app"
	"github.com/dmitrijs2005/glacierkeep/internal/buildinfo"
)

func main() {

	if len(os.Args) > 1 && os.Args[1] == "version" {
		buildinfo.PrintBuildData(os.Stdout)
		return
	}

	os.Exit(app.Main(context.Background(), os.Args[1:], os.Stdout, os.Stderr))

}
