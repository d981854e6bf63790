package main

import (
	"os"

	pscrapecmder "github.com/ardzz/perplexity-scrape/cmd/pscrape"
)

func main() {
	cmd := pscrapecmder.NewPscrapeCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
