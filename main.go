package main

import "lodgr/cmd"

func main() {
	cmd.Execute()
}
