package main

import "books-migrator/cmd"

func main() {
	cmd.Execute()
}
