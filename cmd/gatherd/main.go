package main

import "github.com/example/gatherd/cmd"

func main() {
	cmd.Execute()
}
