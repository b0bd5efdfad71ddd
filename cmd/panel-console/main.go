package main

import "github.com/avolkoff/panelbridge/cmd/panel-console/cmd"

func main() {
	cmd.Execute()
}
