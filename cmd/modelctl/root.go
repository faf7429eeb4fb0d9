package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"

	"modelshelf/internal/config"
	"modelshelf/internal/database"
	"modelshelf/internal/logging"
	"modelshelf/internal/services"
)

// rootOptions holds the persistent flags of one command tree.
type rootOptions struct {
	dbPath     string
	assumeYes  bool
	outputType string
}

// newRootCmd builds a fresh command tree, so flag state never carries over
// between executions.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:          "modelctl",
		Short:        "Manage configured models without the desktop app",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "settings database (default from MODELSHELF_DB_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&opts.assumeYes, "yes", "y", false, "answer yes to confirmations")
	rootCmd.PersistentFlags().StringVarP(&opts.outputType, "output", "o", "table", "output format: table|json")

	rootCmd.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newAddCmd(opts),
		newEditCmd(opts),
		newRmCmd(opts),
		newEnableCmd(opts, true),
		newEnableCmd(opts, false),
	)
	return rootCmd
}

// session is an open set of settings services for one command.
type session struct {
	svc     *services.DbServices
	closeDB func() error
	log     *logrus.Logger
}

func openSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	level := cfg.LogLevel
	if level > logrus.WarnLevel {
		level = logrus.WarnLevel
	}
	log, _ := logging.New(logging.Options{Level: level})
	log.SetOutput(cmd.ErrOrStderr())

	db, err := database.Init(database.Config{Path: cfg.DBPath, LogLevel: logger.Silent, Log: log})
	if err != nil {
		return nil, fmt.Errorf("open settings database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	var vault services.SecretVault
	if cfg.UseKeyring {
		vault = services.NewKeyringService()
	}
	svc := services.NewDbServices(db, services.Options{
		Log:         log,
		QuietPeriod: cfg.QuietPeriod,
		Vault:       vault,
		Dialogs:     newTerminalDialogs(cmd.InOrStdin(), cmd.ErrOrStderr(), opts.assumeYes),
	})
	if err := svc.StartDbServices(cmd.Context()); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &session{svc: svc, closeDB: sqlDB.Close, log: log}, nil
}

// Close waits for pending writes and reports a failed one.
func (s *session) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	saveErr := s.svc.Shutdown(ctx)
	if err := s.closeDB(); err != nil && saveErr == nil {
		saveErr = err
	}
	if saveErr != nil {
		return fmt.Errorf("saving settings: %w", saveErr)
	}
	return nil
}

func withSession(cmd *cobra.Command, opts *rootOptions, fn func(s *session) error) (err error) {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
