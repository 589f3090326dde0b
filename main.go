package main

import "github.com/twdbtools/cmd"

func main() {
	cmd.Execute()
}
