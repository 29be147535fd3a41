// oxy-tunnel - scroll-driven 3D tunnel flythrough.
//
// Controls:
//
//	Mouse        - Steer the camera yaw and tilt
//	Wheel        - Fly through the tunnel
//	Arrows/Space - Scroll by a line or a page
//	Home/End     - Jump to the start or the end
//	Esc          - Quit
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

func main() {
	if err := fang.Execute(context.Background(), newRootCommand()); err != nil {
		os.Exit(1)
	}
}
