package main

import (
	"github.com/DrSkyle/amlgraph/cmd/amlgraph/commands"
)

func main() {
	commands.Execute()
}
