package main

import "github.com/jlkcz/auditparser/internal/cmd"

func main() {
	cmd.Execute()
}
