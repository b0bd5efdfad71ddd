package main

import "github.com/avolkoff/panelbridge/cmd/panel-notifier/cmd"

func main() {
	cmd.Execute()
}
