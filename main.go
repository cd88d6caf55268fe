package main

import "github.com/nuralexjig/jtool/cmd"

func main() {
	cmd.Execute()
}
