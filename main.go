package main

import "github.com/samsaffron/mdast/cmd"

func main() {
	cmd.Execute()
}
