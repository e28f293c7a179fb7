package main

import "github.com/hasanbasri/attendance-management/cmd"

func main() {
	cmd.Execute()
}
