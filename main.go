package main

import "reelgen/cmd"

func main() {
	cmd.Execute()
}
