package main

import "covid-spread/cmd"

func main() {
	cmd.Execute()
}
