package fluffy

import (
	"os"

	"github.com/sjzar/fluffy/internal/fluffy"
	"github.com/sjzar/fluffy/pkg/util"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(psCmd)
	psCmd.Flags().StringVarP(&psKeyword, "keyword", "k", "", "only show processes whose name contains keyword")
}

var psKeyword string

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List running processes",
	Run: func(cmd *cobra.Command, args []string) {
		processes := fluffy.New().CommandProcesses(psKeyword)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"PID", "Name", "Path"})
		for _, p := range processes {
			t.AppendRow(table.Row{p.PID, p.Name, util.Truncate(p.ExePath, 80)})
		}
		t.AppendFooter(table.Row{"", "Total", len(processes)})
		t.Render()
	},
}
