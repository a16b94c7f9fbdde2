package main

import "github.com/mcoot/playerdb/internal/cli"

func main() {
	cli.Execute()
}
