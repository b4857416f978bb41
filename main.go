package main

import "github.com/yeremiapane/tuber-treats/cmd"

func main() {
	cmd.Execute()
}
