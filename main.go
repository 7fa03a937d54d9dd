// Package main provides the entry point for rvsim.
// rvsim is an RV64I five-stage core simulator with a direct-mapped,
// write-back data cache, built on the Akita hook framework.
//
// For the full CLI, use: go run ./cmd/rvsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rvsim - RV64I Pipeline and Data Cache Simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: rvsim <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  run <program>   Run a RISC-V ELF64 executable or raw image")
	fmt.Println("  demo <name>     Run a built-in program (sum, memcpy, conflict)")
	fmt.Println("  config          Print the default configuration")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rvsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rvsim' instead.")
	}
}
