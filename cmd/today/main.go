package main

import "today/internal/cli"

func main() {
	cli.Execute()
}
