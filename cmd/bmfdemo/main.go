// Command bmfdemo demonstrates the bitmap library.
package main

import (
	"flag"
	"log"

	"github.com/gogpu/bitmap"
)

func main() {
	var (
		width       = flag.Int("width", 400, "image width")
		height      = flag.Int("height", 300, "image height")
		backendName = flag.String("backend", "", "backend to use (canvas, quartz; empty for default)")
		output      = flag.String("output", "demo.png", "output file")
	)
	flag.Parse()

	b, err := bitmap.Create(*width, *height, &bitmap.Options{Backend: *backendName})
	if err != nil {
		log.Fatalf("Failed to create bitmap: %v", err)
	}
	defer b.Close()

	if err := drawDemo(b); err != nil {
		log.Fatalf("Failed to draw: %v", err)
	}

	if err := b.SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Demo saved to %s (%dx%d)\n", *output, b.Width(), b.Height())
}

func drawDemo(b *bitmap.Bitmap) error {
	// Background
	if _, err := b.DrawRect(nil, nil, "white", "#f0f0ff"); err != nil {
		return err
	}

	// Shapes
	if _, err := b.DrawRect("120x80", "20|20", "navy", "#8080ff"); err != nil {
		return err
	}
	if _, err := b.DrawOval("120x80", "160,20", "maroon", "#ff8080"); err != nil {
		return err
	}
	if _, err := b.DrawCircle(50, "80|200", "green", "lime"); err != nil {
		return err
	}
	if _, err := b.DrawArc("100x100", "180|150", -30, 240, "black", "orange"); err != nil {
		return err
	}
	if _, err := b.DrawLine("20|280", bitmap.Pt(380, 280), "#800080"); err != nil {
		return err
	}

	// Text (built-in face unless a font was registered)
	_, err := b.WriteText("bitmap demo", "300|20", bitmap.Font{Size: 12, Color: "black"})
	return err
}
