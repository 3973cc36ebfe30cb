package main

import "proctree/cli"

func main() {
	cli.Execute()
}
