//go:build !windows

package main

// enableVT is a no-op: Unix terminals already speak ANSI.
func enableVT() func() { return func() {} }
