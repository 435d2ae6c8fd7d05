package main

import (
	_ "time/tzdata"

	"healthcart/cmd"
)

func main() {
	cmd.Execute()
}
