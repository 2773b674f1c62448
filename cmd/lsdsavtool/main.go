// Command lsdsavtool is a forensic inspection front end over package
// lsdsav, analogous to the teacher's cmd/flac-frame (single-frame dump) and
// cmd/go-metaflac (metadata listing). It owns no format logic of its own;
// every subcommand is a thin wrapper around the library's public API.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gbdev-tools/lsdsav"
	"github.com/gbdev-tools/lsdsav/block"
	"github.com/gbdev-tools/lsdsav/vio"
)

func main() {
	root := &cobra.Command{
		Use:   "lsdsavtool",
		Short: "Inspect chiptune tracker save files",
	}
	root.AddCommand(inspectCmd(), listProjectsCmd(), dumpBlockCmd())

	if err := root.Execute(); err != nil {
		// Stack-trace context at the outermost boundary only; the library
		// itself returns plain *errs.Error values.
		fmt.Fprintf(os.Stderr, "%+v\n", errors.WithStack(err))
		os.Exit(1)
	}
}

// openSav validates that path exists before handing it to lsdsav.Open, and
// flags a non-".sav" extension, the way the teacher's flac2wav/wav2flac use
// osutil.Exists/pathutil.TrimExt around their own file-open call sites.
func openSav(path string) (*lsdsav.Sav, error) {
	exists, err := osutil.Exists(path)
	if err != nil {
		return nil, errors.Wrapf(err, "checking %s", path)
	}
	if !exists {
		return nil, errors.Errorf("%s: no such file", path)
	}
	if ext := filepath.Ext(path); ext != ".sav" {
		fmt.Fprintf(os.Stderr, "warning: %s has no \".sav\" extension (base name %q)\n",
			path, pathutil.TrimExt(filepath.Base(path)))
	}
	sav, err := lsdsav.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return sav, nil
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <path>",
		Short: "Validate and summarize a save file's header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sav, err := openSav(args[0])
			if err != nil {
				return err
			}
			populated := 0
			for _, p := range sav.Projects {
				if !p.IsEmpty() {
					populated++
				}
			}
			fmt.Printf("state: %s\n", sav.State())
			fmt.Printf("active project: %d\n", sav.ActiveProjectIndex)
			fmt.Printf("populated slots: %d/%d\n", populated, lsdsav.ProjectCount)
			for _, d := range sav.ReadDiagnostics {
				fmt.Printf("diagnostic: slot %d: %v\n", d.Slot, d.Err)
			}
			return nil
		},
	}
}

func listProjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-projects <path>",
		Short: "List each project slot's name, version, and state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sav, err := openSav(args[0])
			if err != nil {
				return err
			}
			for i, p := range sav.Projects {
				if p.IsEmpty() {
					fmt.Printf("%2d: empty\n", i)
					continue
				}
				fmt.Printf("%2d: name=%q version=%d\n", i, trimName(p.Name[:]), p.Version)
			}
			return nil
		},
	}
}

func trimName(name []byte) string {
	end := len(name)
	for end > 0 && name[end-1] == 0 {
		end--
	}
	return string(name[:end])
}

func dumpBlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump-block <path> <index>",
		Short: "Decode exactly one block and print how many bytes it yields",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var index int
			if _, err := fmt.Sscanf(args[1], "%d", &index); err != nil {
				return fmt.Errorf("lsdsavtool: invalid block index %q: %w", args[1], err)
			}
			if index < 1 || index > block.Count {
				return fmt.Errorf("lsdsavtool: block index out of range [1, %d]", block.Count)
			}

			exists, err := osutil.Exists(args[0])
			if err != nil {
				return errors.Wrapf(err, "checking %s", args[0])
			}
			if !exists {
				return errors.Errorf("%s: no such file", args[0])
			}

			f, err := vio.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			if err := f.Seek(blockFileOffset(index), vio.SeekStart); err != nil {
				return err
			}
			var rc vio.Counter
			out, err := block.Decode(f, blockFileOffset(1), false, &rc)
			if err != nil {
				return err
			}
			fmt.Printf("block %d: decoded %d bytes (single-block, jumps not followed)\n", index, len(out))
			return nil
		},
	}
}

// blockFileOffset returns the absolute file offset of 1-based block index i,
// matching the save container's block-area layout.
func blockFileOffset(i int) int64 {
	const blockAreaOffset = 0x8400
	return blockAreaOffset + int64(i-1)*block.Size
}
