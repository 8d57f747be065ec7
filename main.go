package main

import "github.com/bidouilles/ios-simulator-mcp/cmd"

func main() {
	cmd.Execute()
}
