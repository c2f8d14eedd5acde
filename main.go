package main

import "github.com/kwoodhouse93/runplan-sync/cmd"

func main() {
	cmd.Execute()
}
