package main

import (
	"LrcFM/cmd"
)

func main() {
	cmd.Execute()
}
