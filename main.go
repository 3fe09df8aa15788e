package main

import "github.com/agentic-research/faqtree/cmd"

func main() {
	cmd.Execute()
}
