package main

import "github.com/fairdex/auction-monitor/cmd"

func main() {
	cmd.Execute()
}
