package main

import (
	"os"
)

// Usage examples on the command line:
// > go run ./cmd/addressbook --storage contacts.txt
// > ADDRESSBOOK_PAGE_SIZE=10 go run ./cmd/addressbook list
// > go run ./cmd/addressbook search --family smith --name john
func main() {
	a := &app{}
	err := newRootCommand(a).Execute()
	a.close()
	if err != nil {
		os.Exit(1)
	}
}
