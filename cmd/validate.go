package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/AnyUserName/colorfx/internal/manifest"
	"github.com/spf13/cobra"
)

var validateHashes bool

var validateCmd = &cobra.Command{
	Use:   "validate <out_dir_or_manifest>",
	Short: "Validate a manifest and check referenced files",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateHashes, "hashes", true, "re-hash files and compare with the manifest")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	path, err := manifest.Locate(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}

	baseDir := filepath.Join(filepath.Dir(path), filepath.FromSlash(m.BasePath))
	log.WithField("base", baseDir).Debug("validate")
	errs := m.Validate(baseDir, validateHashes)

	if len(errs) == 0 {
		fmt.Println("  ✓ Manifest is valid")
		fmt.Printf("  ✓ %d outputs, all files present\n", m.Stats.TotalOutputs)
		return nil
	}

	fmt.Printf("  ✗ Manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}
