package main

import "github.com/PolarWolf314/securehide/cmd"

func main() {
	cmd.Execute()
}
