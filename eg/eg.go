// Package main drives orbitsim headlessly, one named scenario at a time,
// the way the teacher's own `eg` launcher drives one named demo at a time.
// Run with:
//
//	eg [example name]
//
// Invoking eg without parameters lists the examples that can be run.
package main

import (
	"fmt"
	"log"
	"os"
)

// example combines example code with a description.
type example struct {
	tag         string // Example identifier.
	description string // Short description of the example.
	function    func() error
}

// Launch the requested example or list available examples.
func main() {
	examples := []example{
		{"drop", "drop: a brick of particles falls under uniform gravity and settles on the floor", runDrop},
		{"orbit", "orbit: a ring of probes orbits a single massive planet", runOrbit},
		{"fill", "fill: two balls of particles collide and settle inside the box", runFill},
	}

	for _, arg := range os.Args[1:] {
		for _, eg := range examples {
			if arg == eg.tag {
				if err := eg.function(); err != nil {
					log.Fatalf("%s: %v", eg.tag, err)
				}
				return
			}
		}
	}

	fmt.Println("Usage: eg [example]")
	fmt.Println("Examples are:")
	for _, eg := range examples {
		fmt.Printf("   %s\n", eg.description)
	}
}
