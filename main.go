package main

import "map-editor/cmd"

func main() {
	cmd.Execute()
}
