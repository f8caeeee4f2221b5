//go:build linux

package main

import "rawstat/cmd"

func main() {
	cmd.Execute()
}
