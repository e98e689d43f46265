package fluffy

import (
	"github.com/sjzar/fluffy/internal/fluffy"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	// windows only
	cobra.MousetrapHelpText = ""

	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "debug")
	rootCmd.PersistentPreRun = initLog
	rootCmd.Flags().StringVarP(&rootConfigPath, "config", "c", "", "config dir")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Err(err).Msg("command execution failed")
	}
}

var rootConfigPath string

var rootCmd = &cobra.Command{
	Use:     "fluffy",
	Short:   "fluffy",
	Long:    `fluffy 选择一个运行中的进程, 把动态库注入进去`,
	Example: `fluffy`,
	Args:    cobra.MinimumNArgs(0),
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PreRun: initTuiLog,
	Run:    Root,
}

func Root(cmd *cobra.Command, args []string) {
	m := fluffy.New()
	if err := m.Run(rootConfigPath); err != nil {
		log.Err(err).Msg("failed to run fluffy instance")
	}
}
