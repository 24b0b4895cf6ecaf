package main

import "github.com/derickschaefer/streamify/cmd"

func main() {
	cmd.Execute()
}
