package main

import "github.com/dolittle/lambda-log-forwarder/cmd"

func main() {
	cmd.Execute()
}
