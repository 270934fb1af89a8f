package main

import "example.com/fieldtrack/agent/cmd"

func main() {
	cmd.Execute()
}
