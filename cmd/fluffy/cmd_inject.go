package fluffy

import (
	"fmt"
	"os"

	"github.com/sjzar/fluffy/internal/errors"
	"github.com/sjzar/fluffy/internal/fluffy"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(injectCmd)
	injectCmd.Flags().Uint32VarP(&injectPID, "pid", "p", 0, "target process id")
	injectCmd.Flags().StringVarP(&injectLibrary, "library", "l", "", "path of the dll to load")
}

var (
	injectPID     uint32
	injectLibrary string
)

var injectCmd = &cobra.Command{
	Use:   "inject -p <pid> -l <dll>",
	Short: "Load a dll into a running process",
	Run: func(cmd *cobra.Command, args []string) {
		m := fluffy.New()
		err := m.CommandInject(injectPID, injectLibrary)
		if err != nil {
			log.Err(err).Msg("inject failed")
			if Debug {
				fmt.Fprintln(os.Stderr, errors.FormatErrorChain(err))
			}
		}
		fmt.Println(fluffy.Describe(err))
		if err != nil {
			os.Exit(1)
		}
	},
}
