package main

import "github.com/souffle-app/souffle-content/cmd"

func main() {
	cmd.Execute()
}
