package main

import "snaps/internal/cli"

func main() {
	cli.Execute()
}
