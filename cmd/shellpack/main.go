package main

import (
	"github.com/NVIDIA/shellpack/pkg/cli"
)

func main() {
	cli.Execute()
}
