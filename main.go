package main

import "mp3-batch/cmd"

func main() {
	cmd.Execute()
}
