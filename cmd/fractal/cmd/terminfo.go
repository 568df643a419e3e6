package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	fractal "github.com/Is-This-a-JoJo-Reference/Fractals-project"
	"github.com/Is-This-a-JoJo-Reference/Fractals-project/pkg/csi"
)

func init() {
	rootCmd.AddCommand(terminfoCmd)
}

var terminfoCmd = &cobra.Command{
	Use:   "terminfo",
	Short: "Report terminal graphics capabilities",
	Long: `terminfo probes the current terminal and reports what the live preview
and image previews will use: window geometry, cell pixel metrics and the
best supported image protocol.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Terminal:")
		fmt.Printf("  TERM:          %s\n", os.Getenv("TERM"))
		if tp := os.Getenv("TERM_PROGRAM"); tp != "" {
			fmt.Printf("  TERM_PROGRAM:  %s\n", tp)
		}
		if os.Getenv("TMUX") != "" {
			fmt.Println("  tmux:          yes (sequences will be passthrough-wrapped)")
		}

		fmt.Println()
		fmt.Println("Geometry:")
		if cols, rows, err := csi.WindowCells(); err == nil {
			fmt.Printf("  window:        %d x %d cells\n", cols, rows)
		} else {
			fmt.Printf("  window:        unknown (%v)\n", err)
		}
		if w, h, ok := csi.CellSize(); ok {
			fmt.Printf("  cell:          %d x %d px\n", w, h)
		} else {
			fmt.Println("  cell:          unknown")
		}
		if aspect, ok := csi.CellAspect(); ok {
			fmt.Printf("  cell aspect:   %.2f\n", aspect)
		} else {
			fmt.Printf("  cell aspect:   unknown (assuming %.1f)\n", fractal.DefaultAspect)
		}
		if w, h, ok := csi.TextAreaPixels(); ok {
			fmt.Printf("  text area:     %d x %d px\n", w, h)
		}

		fmt.Println()
		fmt.Printf("Preview protocol: %s\n", fractal.DetectPreviewProtocol())
	},
}
