package main

import "github.com/doongjohn/wirechan/cmd"

func main() {
	cmd.Execute()
}
