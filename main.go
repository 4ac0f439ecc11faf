package main

import "github.com/marcus/dropkit/cmd"

// version is stamped by the release build; dev builds report "dev".
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
