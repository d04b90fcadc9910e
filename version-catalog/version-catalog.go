package main

import (
	"github.com/GooGuTeam/g0v0-client-versions/cmd/version-catalog/cmd"
)

func main() {
	cmd.Execute()
}
