package main

import "github.com/inovacc/addressbook/cmd"

func main() {
	cmd.Execute()
}
