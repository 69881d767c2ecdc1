package main

import "github.com/jonwraymond/storycache/cmd"

func main() {
	cmd.Execute()
}
