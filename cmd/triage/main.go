package main

import "triage/internal/cli"

func main() {
	cli.Execute()
}
