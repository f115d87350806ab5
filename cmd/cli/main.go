package main

import "github.com/mchmarny/ambiclass/pkg/cli"

func main() {
	cli.Execute()
}
