package main

import "github.com/emrgen/fieldgraph/cmd"

func main() {
	cmd.Execute()
}
