package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	fractal "github.com/Is-This-a-JoJo-Reference/Fractals-project"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List fractal kinds, palettes and named regions",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Fractal kinds:")
		for _, k := range fractal.Kinds() {
			fmt.Printf("  %-20s %s\n", k, k.Formula())
		}

		fmt.Println()
		fmt.Println("Palettes:")
		for _, p := range fractal.Palettes() {
			fmt.Printf("  %s\n", p)
		}

		fmt.Println()
		fmt.Println("Regions:")
		for _, r := range fractal.Regions() {
			fmt.Printf("  %-20s %s\n", r.Name, r.Kind)
		}
	},
}
