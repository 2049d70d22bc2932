package main

import (
	"github.com/CuteLittleSky/LimboAuth/internal/cli"
)

func main() {
	cli.Execute()
}
