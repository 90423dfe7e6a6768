package main

import "github.com/notargets/nekrea/cmd"

func main() {
	cmd.Execute()
}
