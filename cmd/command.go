// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"

	"github.com/LeeDigitalWorks/resumestore/pkg/env"
	"github.com/LeeDigitalWorks/resumestore/pkg/logger"
	"github.com/LeeDigitalWorks/resumestore/pkg/utils"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFileName = "resumestore"

var rootCmd = &cobra.Command{
	Use:   "resumestore",
	Short: "resumestore - resume storage on S3",
	Long: `resumestore stores job seekers' resumes in an S3 bucket. It provisions
per-user folders, uploads original resumes and serves both operations over HTTP
for the job board.`,
	PersistentPreRun: initialize,
	SilenceUsage:     true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&utils.ConfigurationFileDirectory, "config_dir", ".", "Directory for configuration files")
	rootCmd.PersistentFlags().String("log_level", "", "Log level (trace, debug, info, warn, error); overrides LOG_LEVEL")
}

// initialize loads the config file, the environment and sets up logging.
func initialize(cmd *cobra.Command, args []string) {
	utils.LoadConfiguration(configFileName, false)

	env.Load(viper.GetViper())
	if env.IsLocal() {
		logger.SetOutput(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if raw := NewFlagLoader(cmd).String("log_level"); raw != "" {
		level, err := zerolog.ParseLevel(raw)
		if err != nil {
			logger.Warn().Err(err).Str("log_level", raw).Msg("invalid log level, keeping current")
		} else {
			logger.SetLevel(level)
		}
	}
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
