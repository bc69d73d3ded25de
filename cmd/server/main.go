package main

import "techmart-api/internal/cmd"

func main() {
	cmd.Execute()
}
