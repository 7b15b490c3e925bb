package main

import "github.com/OpenTakeLab/OpenTakeoff/cmd/otk/cmd"

func main() {
	cmd.Execute()
}
