package main

import "teapot/internal/cli"

func main() {
	cli.Execute()
}
