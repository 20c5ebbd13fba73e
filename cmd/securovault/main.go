package main

import "github.com/securoserv/securovault/cmd/securovault/cmd"

func main() {
	cmd.Execute()
}
