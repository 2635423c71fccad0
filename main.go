package main

import "rules-service/cmd"

func main() {
	cmd.Execute()
}
