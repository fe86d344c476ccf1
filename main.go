package main

import (
	"github.com/xkilldash9x/wayfarer/cmd"
)

func main() {
	cmd.Execute()
}
