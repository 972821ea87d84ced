package main

import "github.com/C0n0r92/calc2/cmd"

func main() {
	cmd.Execute()
}
