// Command jsonstore manages schemaless tables stored as JSON documents.
package main

import "github.com/mesh-intelligence/jsonstore/internal/cli"

func main() {
	cli.Execute()
}
