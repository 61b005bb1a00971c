// Command qrmatrix prints the QR module matrix for a payload as ASCII.
// Handy for checking what a given index will encode before printing it.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"qrkeytag/internal/qr"
)

func main() {
	payload := flag.String("data", "T-1", "payload to encode")
	flag.Parse()

	m, err := qr.Encode(*payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%q -> %dx%d modules\n", *payload, m.Size(), m.Size())
	var b strings.Builder
	for y := 0; y < m.Size(); y++ {
		for x := 0; x < m.Size(); x++ {
			if m.At(x, y) {
				b.WriteString("##")
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteByte('\n')
	}
	fmt.Print(b.String())
}
