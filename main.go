package main

import "github.com/tallyhq/tally/cmd"

func main() {
	cmd.Execute()
}
