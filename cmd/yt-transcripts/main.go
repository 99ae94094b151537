package main

import "github.com/virtonen/youtube-transcript-scraper/internal/cli"

func main() {
	cli.Main()
}
