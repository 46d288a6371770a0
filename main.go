package main

import (
	"github.com/fillscope/fillscope-cli/cmd"
)

func main() {
	cmd.Execute()
}
