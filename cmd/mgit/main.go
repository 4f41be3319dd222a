package main

import "mgit/internal/cli"

// Set at build time, e.g. -ldflags "-X main.version=v1.2.0 -X main.commit=abc1234".
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.SetBuildInfo(version, commit, date)
	cli.Execute()
}
