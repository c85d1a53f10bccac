package main

import "github.com/ltsch/scimcheck/internal/cli"

func main() {
	cli.Execute()
}
