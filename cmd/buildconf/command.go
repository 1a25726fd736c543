// Copyright (c) 2026 Docforge Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command buildconf validates documentation build configuration files
// before a build is dispatched.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/docforge/buildconf/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

// New returns the buildconf root command.
func New() *cobra.Command {
	root := &cobra.Command{
		Use:           "buildconf",
		Short:         "Validate documentation build configuration files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newValidateCommand())
	return root
}

func newValidateCommand() *cobra.Command {
	var settingsFile string
	var allowV2 bool

	cmd := &cobra.Command{
		Use:   "validate dir [dir...]",
		Short: "Validate the build configuration of one or more project roots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := readEnvSettings(settingsFile)
			if err != nil {
				return err
			}
			if allowV2 {
				env["allow_v2"] = true
			}

			log := newLogger(cmd.ErrOrStderr())
			defer log.Sync()

			return validateAll(cmd.Context(), log, env, args)
		},
	}
	cmd.Flags().StringVar(&settingsFile, "env-settings", "", "file with environment level defaults (YAML or JSON)")
	cmd.Flags().BoolVar(&allowV2, "allow-v2", false, "honor each document's declared schema version")
	return cmd
}

func newLogger(w io.Writer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(w),
		zapcore.InfoLevel,
	)
	return zap.New(core)
}

// readEnvSettings reads the environment level defaults handed to every
// Load call. The file format is whatever viper can detect from the
// file extension.
func readEnvSettings(path string) (config.EnvConfig, error) {
	if path == "" {
		return config.EnvConfig{}, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	err := v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("read env settings: %w", err)
	}
	return config.EnvConfig(v.AllSettings()), nil
}

// validateAll loads every project root concurrently and reports the
// outcomes in argument order, so output stays deterministic.
func validateAll(ctx context.Context, log *zap.Logger, env config.EnvConfig, dirs []string) error {
	projects := make([]*config.Project, len(dirs))
	results := make([]error, len(dirs))

	g, gctx := errgroup.WithContext(ctx)
	for i, dir := range dirs {
		g.Go(func() error {
			projects[i], results[i] = config.Load(gctx, dir, env)
			return nil
		})
	}
	// Workers record failures per directory instead of returning them,
	// so Wait cannot fail.
	_ = g.Wait()

	failed := false
	for i, dir := range dirs {
		err := results[i]
		if err == nil {
			log.Info("configuration is valid",
				zap.String("dir", dir),
				zap.Int("documents", projects[i].Len()),
			)
			continue
		}
		failed = true
		logLoadError(log, dir, err)
	}
	if failed {
		return errors.New("configuration validation failed")
	}
	return nil
}

func logLoadError(log *zap.Logger, dir string, err error) {
	var ierr *config.InvalidConfigError
	if errors.As(err, &ierr) {
		log.Error("invalid configuration key",
			zap.String("dir", dir),
			zap.String("file", ierr.SourceFile),
			zap.Int("position", ierr.SourcePosition),
			zap.String("key", ierr.Key),
			zap.String("code", ierr.Code),
			zap.String("error", ierr.Message),
		)
		return
	}

	var cerr *config.Error
	if errors.As(err, &cerr) {
		log.Error("invalid configuration file",
			zap.String("dir", dir),
			zap.String("code", cerr.Code),
			zap.String("error", cerr.Message),
		)
		return
	}

	log.Error("failed to load configuration",
		zap.String("dir", dir),
		zap.Error(err),
	)
}
