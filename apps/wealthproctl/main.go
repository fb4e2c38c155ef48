package main

import "github.com/sonyho2715/wealthpro-cloud/internal/cli"

func main() {
	cli.Execute()
}
