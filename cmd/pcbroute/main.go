package main

import "github.com/arl/pcbroute/cmd/pcbroute/cmd"

func main() {
	cmd.Execute()
}
