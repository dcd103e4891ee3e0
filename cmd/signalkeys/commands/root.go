package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"signalkeys/internal/app"
	"signalkeys/internal/crypto"
)

// Version is set via ldflags at build time.
var Version = "dev"

// env is the state shared by one command tree.
type env struct {
	v       *viper.Viper
	cfgFile string
	wire    *app.Wire
}

func (e *env) passphrase() (string, error) {
	p := e.v.GetString("passphrase")
	if p == "" {
		return "", fmt.Errorf("passphrase required (-p or SIGNALKEYS_PASSPHRASE)")
	}
	return p, nil
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds a fresh command tree with its own configuration.
func NewRootCmd() *cobra.Command {
	e := &env{v: viper.New()}

	root := &cobra.Command{
		Use:          "signalkeys",
		Short:        "X25519 identity and pre-key management",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := e.loadConfig(); err != nil {
				return err
			}
			w, err := e.build(cmd)
			if err != nil {
				return err
			}
			e.wire = w
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&e.cfgFile, "config", "", "config file (default: $HOME/.signalkeys/config.yaml)")
	pf.String("home", "", "state dir (default ~/.signalkeys)")
	pf.StringP("passphrase", "p", "", "passphrase protecting the identity")
	pf.String("keystore", app.KeystoreFile, "identity keystore (file, keyring)")
	pf.String("strategy", "auto", "X25519 implementation (auto, native, software)")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	for _, name := range []string{"home", "passphrase", "keystore", "strategy", "log-level"} {
		if err := e.v.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", name, err))
		}
	}

	root.AddCommand(
		initCmd(e),
		fingerprintCmd(e),
		prekeysCmd(e),
		bundleCmd(e),
		verifyCmd(e),
		strategyCmd(e),
		versionCmd(),
	)
	return root
}

func (e *env) loadConfig() error {
	e.v.SetEnvPrefix("SIGNALKEYS")
	e.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	e.v.AutomaticEnv()

	if e.cfgFile != "" {
		e.v.SetConfigFile(e.cfgFile)
	} else {
		e.v.AddConfigPath("$HOME/.signalkeys")
		e.v.SetConfigName("config")
		e.v.SetConfigType("yaml")
	}
	if err := e.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if e.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func (e *env) build(cmd *cobra.Command) (*app.Wire, error) {
	level, err := app.ParseLogLevel(e.v.GetString("log-level"))
	if err != nil {
		return nil, err
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	strategy, err := crypto.ParseStrategy(e.v.GetString("strategy"))
	if err != nil {
		return nil, err
	}

	home := e.v.GetString("home")
	if home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		home = filepath.Join(dir, ".signalkeys")
	}

	return app.NewWire(app.Config{
		Home:     home,
		Keystore: e.v.GetString("keystore"),
		Strategy: strategy,
		Logger:   log,
	})
}
