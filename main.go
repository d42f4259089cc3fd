package main

import "github.com/rahulmourya336/mkdocs-auto-gen-nav/cmd"

func main() {
	cmd.Execute()
}
