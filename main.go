package main

import "github.com/futurebank/fbsim/cmd"

func main() {
	cmd.Execute()
}
