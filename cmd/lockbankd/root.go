package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/app"
	"github.com/iov-one/lockbank/errors"
	"github.com/iov-one/lockbank/metrics"
	"github.com/iov-one/lockbank/store/iavl"
	"github.com/iov-one/lockbank/x/bank"
	"github.com/iov-one/lockbank/x/cash"
	"github.com/iov-one/lockbank/x/sigs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagHome     = "home"
	flagAs       = "as"
	flagLogLevel = "log-level"
	flagNow      = "now"
	flagMetrics  = "metrics"

	envPrefix = "LOCKBANK"
	dbName    = "lockbank"
)

// config is the command line configuration, read from flags, environment
// variables and the config.toml file in the home directory, in that order of
// precedence.
type config struct {
	Home     string
	As       string
	LogLevel string
	Now      string
	Metrics  string
}

// cli holds the state shared by all commands.
type cli struct {
	v       *viper.Viper
	out     io.Writer
	logger  log.Logger
	conf    config
	metrics *metrics.Collector
	reg     *prometheus.Registry
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), out: out, metrics: metrics.New(), reg: metrics.NewRegistry()}
	c.metrics.MustRegister(c.reg)

	root := &cobra.Command{
		Use:           "lockbankd",
		Short:         "Time locked deposits with an early withdrawal penalty",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".lockbankd")
	fs := root.PersistentFlags()
	fs.String(flagHome, defaultHome, "directory to store files under")
	fs.String(flagAs, "", "name of the signer executing the command")
	fs.String(flagLogLevel, "info", "log level (debug, info, error, none)")
	fs.String(flagNow, "", "block time of the command in RFC3339 format, current time if empty")
	fs.String(flagMetrics, "", "file to write the metrics of the command to, in the prometheus text format")
	for _, name := range []string{flagHome, flagAs, flagLogLevel, flagNow, flagMetrics} {
		if err := c.v.BindPFlag(name, fs.Lookup(name)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		c.initCmd(),
		c.deployCmd(),
		c.lockCmd(),
		c.withdrawCmd(),
		c.withdrawBankCmd(),
		c.locksCmd(),
		c.lockIndexCmd(),
		c.detailsCmd(),
		c.balanceCmd(),
		versionCmd(out),
	)
	return root
}

func (c *cli) loadConfig(cmd *cobra.Command) error {
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	confFile := filepath.Join(c.v.GetString(flagHome), "config.toml")
	if _, err := os.Stat(confFile); err == nil {
		c.v.SetConfigFile(confFile)
		if err := c.v.ReadInConfig(); err != nil {
			return errors.Wrapf(errors.ErrInput, "config file %s: %s", confFile, err)
		}
	}

	c.conf = config{
		Home:     c.v.GetString(flagHome),
		As:       c.v.GetString(flagAs),
		LogLevel: c.v.GetString(flagLogLevel),
		Now:      c.v.GetString(flagNow),
		Metrics:  c.v.GetString(flagMetrics),
	}

	c.logger = log.NewTMLogger(log.NewSyncWriter(cmd.OutOrStderr())).With("module", "lockbank")
	if c.conf.LogLevel != "" {
		opt, err := log.AllowLevel(c.conf.LogLevel)
		if err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		c.logger = log.NewFilter(c.logger, opt)
	}
	return nil
}

// blockTime returns the time all operations of the command execute at.
func (c *cli) blockTime() (time.Time, error) {
	if c.conf.Now == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, c.conf.Now)
	if err != nil {
		return t, errors.Wrapf(errors.ErrInput, "--%s: %s", flagNow, err)
	}
	return t, nil
}

// signer returns the context with the --as signer attached. Commands that
// change the state must be executed on behalf of a signer.
func (c *cli) signer(ctx lockbank.Context) (lockbank.Context, error) {
	if c.conf.As == "" {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "--%s is required", flagAs)
	}
	return sigs.WithSigners(ctx, sigs.NamedCondition(c.conf.As)), nil
}

// withExecutor opens the store kept in the home directory for the time of fn.
// When configured, the metrics are written out once fn returns.
func (c *cli) withExecutor(fn func(*app.Executor) error) (err error) {
	now, err := c.blockTime()
	if err != nil {
		return err
	}
	dataDir := filepath.Join(c.conf.Home, "data")
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	db, err := iavl.NewCommitStore(dataDir, dbName)
	if err != nil {
		return err
	}
	defer db.Close()

	e, err := app.NewExecutor(db,
		app.WithLogger(c.logger),
		app.WithMetrics(c.metrics),
		app.WithClock(func() time.Time { return now }))
	if err != nil {
		return err
	}
	if c.conf.Metrics != "" {
		defer func() {
			if werr := metrics.WriteTextfile(c.conf.Metrics, c.reg); werr != nil && err == nil {
				err = werr
			}
		}()
	}
	return fn(e)
}

// controllers returns the bank controller together with the wallets it
// operates on.
func controllers() (bank.Controller, cash.Controller) {
	wallets := cash.NewController(cash.NewBucket())
	return bank.NewController(sigs.Authenticate{}, wallets), wallets
}

// parseOwner accepts an address in any format supported by
// lockbank.ParseAddress or a signer name.
func parseOwner(raw string) lockbank.Address {
	if addr, err := lockbank.ParseAddress(raw); err == nil && len(addr) != 0 {
		return addr
	}
	return sigs.NamedCondition(raw).Address()
}

func (c *cli) printJSON(v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	_, err = fmt.Fprintln(c.out, string(raw))
	return err
}

func versionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(out, lockbank.Version())
		},
	}
}
