package main

import "github.com/davebream/lint-mcp/cmd"

func main() {
	cmd.Execute()
}
