package cmd

import (
	"fmt"
	"os"
	"time"

	"parcelgraph/services/lexicon"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	convertInput   string
	convertOutput  string
	convertStrap   string
	convertOwners  string
	convertPhotos  string
	convertWorkers int
)

func init() {
	convertCmd.Flags().StringVar(&convertInput, "input", "", "directory of per-folio appraisal html documents")
	convertCmd.Flags().StringVar(&convertOutput, "output", "", "directory the graph json files are written to")
	convertCmd.Flags().StringVar(&convertStrap, "strap", "", "path to the strap reference csv")
	convertCmd.Flags().StringVar(&convertOwners, "owners", "", "path to the owner names csv (optional)")
	convertCmd.Flags().StringVar(&convertPhotos, "photos", "", "directory of per-folio photo manifests (optional)")
	convertCmd.Flags().IntVar(&convertWorkers, "workers", 30, "number of conversion workers")
	convertCmd.MarkFlagRequired("input")
	convertCmd.MarkFlagRequired("output")
	convertCmd.MarkFlagRequired("strap")

	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Converts a folder of appraisal documents into one entity graph per folio.",
	Run: func(cmd *cobra.Command, args []string) {
		ref, err := lexicon.LoadRefData(convertStrap, convertOwners)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		svc := lexicon.NewService(ref, convertPhotos)

		start := time.Now()
		counts, err := svc.Run(cmd.Context(), convertInput, convertOutput, convertWorkers)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Succeeded", "Skipped", "Failed", "Took"})
		t.AppendRow(table.Row{
			counts.Succeeded,
			counts.Skipped,
			counts.Failed,
			time.Since(start).Round(time.Millisecond),
		})
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
