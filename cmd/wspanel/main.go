// Package main provides the CLI entrypoint for wspanel.
package main

func main() {
	Execute()
}
