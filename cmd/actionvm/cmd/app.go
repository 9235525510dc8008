package cmd

import (
	"io"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	mdwlog "github.com/msto63/actionvm/foundation/core/log"
	"github.com/msto63/actionvm/internal/builtins"
	"github.com/msto63/actionvm/internal/history"
	"github.com/msto63/actionvm/internal/interp"
	"github.com/msto63/actionvm/internal/seed"
	"github.com/msto63/actionvm/internal/session"
	"github.com/msto63/actionvm/internal/store"
	"github.com/msto63/actionvm/pkg/core/config"
	"github.com/msto63/actionvm/pkg/core/logging"
)

// loadConfig resolves the configuration and applies the global flags. A
// missing config file falls back to the defaults.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
		if mdwerror.HasCode(err, mdwerror.CodeMissingConfig) {
			cfg, err = config.Default(), nil
		}
	}
	if err != nil {
		return nil, err
	}

	if seedFile != "" {
		cfg.Interpreter.SeedFile = seedFile
	}
	if strict {
		cfg.Interpreter.StrictIdentifiers = true
	}
	if verbose {
		cfg.General.LogLevel = "debug"
	}
	return cfg, nil
}

// setupLogging installs the root logger. A nil output logs to stderr.
func setupLogging(cfg *config.Config, output io.Writer) *mdwlog.Logger {
	lc := logging.FromConfig(cfg, cfg.General.Name)
	lc.Output = output
	logger := logging.NewLogger(lc)
	logging.SetRoot(logger)
	return logger
}

// newHost builds a seeded interpreter host. console output outside of a
// batch goes to out. The returned cleanup closes the journal.
func newHost(cfg *config.Config, logger *mdwlog.Logger, out io.Writer) (*session.Host, func(), error) {
	ds := store.New()
	if cfg.Interpreter.Builtins {
		builtins.Install(ds, out)
	}
	if cfg.Interpreter.SeedFile != "" {
		f, err := seed.Load(cfg.Interpreter.SeedFile)
		if err != nil {
			return nil, nil, err
		}
		f.Apply(ds, out)
	}

	in := interp.New(ds, interp.Options{
		Logger:            logger,
		Output:            out,
		StrictIdentifiers: cfg.Interpreter.StrictIdentifiers,
		Audit:             cfg.Interpreter.Audit,
	})
	host := session.NewHost(in, logger)

	cleanup := func() {}
	if cfg.History.Enabled {
		journal, err := history.Open(history.Config{Path: cfg.History.Path})
		if err != nil {
			return nil, nil, err
		}
		host.SetJournal(journal)
		cleanup = func() { journal.Close() }
	}
	return host, cleanup, nil
}
