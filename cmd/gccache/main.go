package main

import "github.com/mcoot/gccache/internal/cli"

func main() {
	cli.Execute()
}
