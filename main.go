package main

import "github.com/mpapenbr/regatta-score-manager-go/cmd"

func main() {
	cmd.Execute()
}
