package main

import (
	"flagexpiry/cmd/flagexpiry/cmd"
)

func main() {
	cmd.Execute()
}
