package main

import "github.com/quita-app/quita/internal/cli"

func main() {
	cli.Execute()
}
