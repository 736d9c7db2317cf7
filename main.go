package main

import "github.com/sheetwright/sheetwright/cmd"

func main() {
	cmd.Execute()
}
