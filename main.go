package main

import (
	"github.com/OpenCHAMI/nsoinv/cmd"
)

func main() {
	cmd.Execute()
}
