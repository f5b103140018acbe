package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lfarias/normanav/internal/config"
	"github.com/lfarias/normanav/internal/norma"
	"github.com/lfarias/normanav/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>...",
	Short: "Run a one-shot search against the loaded document",
	Long:  `Loads the document artifact and prints the labels of articles matching every given term. Understands the same quick-jump grammar as the interactive search box (e.g. "a43", "aADT12").`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		doc, err := norma.Load(filepath.Join(cfg.DataDir, "document.json"))
		if err != nil {
			return fmt.Errorf("loading document: %w", err)
		}

		engine := search.New(doc)
		res := engine.Search(strings.Join(args, " "), nil)

		switch res.Kind {
		case search.KindQuickJump:
			if res.Jump == nil {
				fmt.Println("no such article")
				return nil
			}
			fmt.Println(res.Jump.Label())
		case search.KindMatches:
			for _, uid := range res.State.Matched {
				if a := doc.ArticleByUID(uid); a != nil {
					fmt.Println(a.Label())
				}
			}
			if verbose {
				fmt.Printf("%d article(s) matched\n", len(res.State.Matched))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
