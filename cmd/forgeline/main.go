package main

import "github.com/oshokin/forgeline/cmd/forgeline/cmd"

func main() {
	cmd.Execute()
}
