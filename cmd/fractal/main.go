package main

import "github.com/Is-This-a-JoJo-Reference/Fractals-project/cmd/fractal/cmd"

func main() {
	cmd.Execute()
}
