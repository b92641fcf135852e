package main

import "schema-sentinel/cmd"

func main() {
	cmd.Execute()
}
