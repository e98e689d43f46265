package fluffy

import (
	"github.com/sjzar/fluffy/internal/fluffy"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringVarP(&serverAddr, "addr", "a", "", "server address")
	serverCmd.Flags().StringVarP(&serverConfigPath, "config", "c", "", "config dir")
	serverCmd.Flags().StringSliceVarP(&serverDLLs, "dll", "l", nil, "library paths reported by /api/v1/library")
}

var (
	serverAddr       string
	serverConfigPath string
	serverDLLs       []string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		cmdConf := make(map[string]any)
		if serverAddr != "" {
			cmdConf["http_addr"] = serverAddr
		}
		if len(serverDLLs) > 0 {
			cmdConf["dlls"] = serverDLLs
		}

		m := fluffy.New()
		if err := m.CommandHTTPServer(serverConfigPath, cmdConf); err != nil {
			log.Err(err).Msg("failed to start server")
			return
		}
	},
}
