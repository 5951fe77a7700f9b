package main

import (
	"github.com/NVIDIA/idlelog/pkg/cli"
)

func main() {
	cli.Execute()
}
