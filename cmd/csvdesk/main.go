// Command csvdesk imports, displays, sorts, merges and converts CSV tables.
package main

import "github.com/mesh-intelligence/csvdesk/internal/cli"

func main() {
	cli.Execute()
}
