// Command svgmap rewrites the two-letter country ids of a map SVG to the
// three-letter codes the dashboard dataset uses.
package main

import (
	"fmt"
	"os"

	"energydash/internal/isocodes"
	"energydash/internal/logger"

	"github.com/spf13/cobra"
)

var strict bool

var rootCmd = &cobra.Command{
	Use:   "svgmap <input.svg> <output.svg>",
	Short: "Rewrite map SVG element ids from ISO alpha-2 to alpha-3",
	Long: `Rewrite every id="xx" attribute of a map SVG, where xx is a lower-case
ISO 3166 alpha-2 code, to id="XXX" with the alpha-3 code.

Ids that do not occur exactly once are reported. With --strict they make
the command fail instead, and no output is written.

Examples:
  svgmap europe.svg public/europe.svg
  svgmap --strict europe.svg public/europe.svg`,
	Args: cobra.ExactArgs(2),
	RunE: run,
}

func init() {
	rootCmd.Flags().BoolVar(&strict, "strict", false, "fail when an id does not occur exactly once")
}

func run(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]
	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", in, err)
	}

	svg, warnings := isocodes.RewriteSVGIDs(string(data))
	for _, w := range warnings {
		logger.Warn("unexpected id count", logger.Fields{"tag": w.Tag, "count": w.Count})
	}
	if strict && len(warnings) > 0 {
		return fmt.Errorf("%d ids did not occur exactly once", len(warnings))
	}

	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	logger.Info("map rewritten", logger.Fields{"input": in, "output": out, "warnings": len(warnings)})
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
