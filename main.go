package main

import "ttylog/cmd"

func main() {
	cmd.Execute()
}
