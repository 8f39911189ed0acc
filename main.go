package main

import (
	"github.com/imagespy/archcheck/cmd"
)

func main() {
	cmd.Execute()
}
