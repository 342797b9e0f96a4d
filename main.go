package main

import "nslpulse/cmd"

func main() {
	cmd.Execute()
}
