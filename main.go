package main

import "github.com/lepinkainen/mixdl/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
