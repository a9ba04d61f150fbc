package main

import (
	"os"

	"quartz/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
