// Command semantria is the command line client for the Semantria API.
package main

import "github.com/semantria/semantria-go/internal/cli"

func main() {
	cli.Execute()
}
