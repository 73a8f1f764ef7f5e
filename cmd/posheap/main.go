package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/FoConrad/positionheap"
	"github.com/spf13/cobra"
)

var (
	textFile string
	foldCase bool
	nfc      bool
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "posheap",
	Short: "Substring queries over a text file via a position heap index",
}

var searchCmd = &cobra.Command{
	Use:   "search [patterns...]",
	Short: "Report every start offset of each pattern in the text",
	Args:  cobra.MinimumNArgs(1),
	Run:   runSearch,
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the index tree in indented preorder (debugging aid)",
	Args:  cobra.NoArgs,
	Run:   runDump,
}

func buildIndex() *positionheap.Index {
	if textFile == "" {
		slog.Error("provide a text file using --text-file")
		os.Exit(1)
	}
	data, err := os.ReadFile(textFile)
	if err != nil {
		slog.Error("failed to read text file", "path", textFile, "error", err)
		os.Exit(1)
	}

	b := positionheap.NewBuilder(string(data))
	if foldCase {
		b.FoldCase()
	}
	if nfc {
		b.NormalizeNFC()
	}
	if verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		b.WithLogger(slog.Default())
	}

	idx, err := b.Build()
	if err != nil {
		slog.Error("failed to build index", "error", err)
		os.Exit(1)
	}
	return idx
}

func runSearch(_ *cobra.Command, args []string) {
	idx := buildIndex()
	n := idx.TextLength()
	for _, pattern := range args {
		positions := idx.Search(pattern)
		// The index numbers positions from the right end of the text;
		// report the familiar left-to-right start offsets instead.
		starts := make([]int, len(positions))
		for i, h := range positions {
			starts[i] = n - 1 - h
		}
		sort.Ints(starts)
		fmt.Printf("%s: %d %v\n", pattern, len(starts), starts)
	}
}

func runDump(_ *cobra.Command, _ []string) {
	buildIndex().Dump(os.Stdout)
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&textFile, "text-file", "f", "", "file holding the text to index")
	rootCmd.PersistentFlags().BoolVar(&foldCase, "fold-case", false, "lower-case the text and all patterns")
	rootCmd.PersistentFlags().BoolVar(&nfc, "nfc", false, "NFC-normalize the text and all patterns")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log build progress")
	rootCmd.AddCommand(searchCmd, dumpCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
