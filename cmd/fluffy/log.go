package fluffy

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sjzar/fluffy/internal/fluffy/conf"
	"github.com/sjzar/fluffy/pkg/util"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var Debug bool

func initLog(cmd *cobra.Command, args []string) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logrus.SetLevel(logrus.InfoLevel)

	if Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logrus.SetLevel(logrus.DebugLevel)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logrus.SetOutput(os.Stderr)
}

// initTuiLog keeps log output off the terminal the UI is drawn on.
func initTuiLog(cmd *cobra.Command, args []string) {
	logOutput := io.Discard

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		logpath := util.DefaultWorkDir(conf.AppName)
		util.PrepareDir(logpath)
		logFD, err := os.OpenFile(filepath.Join(logpath, "fluffy.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.ModePerm)
		if err != nil {
			panic(err)
		}
		logOutput = logFD
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: logOutput, NoColor: true, TimeFormat: time.RFC3339})
	logrus.SetOutput(logOutput)
}
