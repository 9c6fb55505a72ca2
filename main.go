package main

import "github.com/gaurav-prasanna/storypdf/cmd"

func main() {
	cmd.Execute()
}
