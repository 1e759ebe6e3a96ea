package main

import "pkgindex/internal/cli"

func main() {
	cli.Execute()
}
