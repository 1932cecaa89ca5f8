package main

import "github.com/hcengineering/huly-coder/cmd"

func main() {
	cmd.Execute()
}
