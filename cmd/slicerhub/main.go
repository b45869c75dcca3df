// Package main provides the slicerhub CLI for managing signed slicer
// profile repositories.
package main

func main() {
	Execute()
}
