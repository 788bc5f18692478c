// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/config"
	"github.com/ava-labs/cfmm/consts"
	"github.com/ava-labs/cfmm/genesis"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/node"
	"github.com/ava-labs/cfmm/trace"
	"github.com/ava-labs/cfmm/utils"

	cfmmlogging "github.com/ava-labs/cfmm/internal/logging"
)

const (
	configFlag      = "config"
	genesisFlag     = "genesis"
	dataDirFlag     = "data-dir"
	httpHostFlag    = "http-host"
	httpPortFlag    = "http-port"
	logLevelFlag    = "log-level"
	fundAmountFlag  = "fund-amount"
	defaultFundings = "1000000000000"
)

var serveFlags = []string{configFlag, genesisFlag, dataDirFlag, httpHostFlag, httpPortFlag, logLevelFlag, fundAmountFlag}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pool over HTTP",
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		for _, name := range serveFlags {
			if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
				return err
			}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadNodeConfig()
		if err != nil {
			return err
		}
		g, err := loadGenesis(cmd)
		if err != nil {
			return err
		}

		logFactory := cfmmlogging.NewFactory(cfg.GetLogConfig())
		defer logFactory.Close()
		log, err := logFactory.Make("cfmm")
		if err != nil {
			return fmt.Errorf("unable to initialize logger: %w", err)
		}
		tracer, err := trace.New(cfg.GetTraceConfig())
		if err != nil {
			return fmt.Errorf("unable to initialize tracer: %w", err)
		}
		defer func() {
			if err := tracer.Close(); err != nil {
				log.Warn("failed to close tracer", zap.Error(err))
			}
		}()

		n, err := node.New(cmd.Context(), log, tracer, cfg, g)
		if err != nil {
			return fmt.Errorf("cannot create node: %w", err)
		}

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigs)
		go func() {
			sig, ok := <-sigs
			if !ok {
				return
			}
			log.Info("triggering server shutdown", zap.Any("signal", sig))
			if err := n.Shutdown(); err != nil {
				log.Warn("shutdown failed", zap.Error(err))
			}
		}()

		utils.Outf("{{green}}serving pool at{{/}} %s\n", n.URI())
		err = n.Dispatch()
		log.Info("server exited", zap.Error(err))
		return err
	},
}

// loadNodeConfig reads the --config file, if any, and applies flag and
// CFMM_* environment overrides on top.
func loadNodeConfig() (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if path := viper.GetString(configFlag); len(path) > 0 {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}
	if viper.IsSet(dataDirFlag) {
		cfg.DataDir = viper.GetString(dataDirFlag)
	}
	if viper.IsSet(httpHostFlag) {
		cfg.HTTPHost = viper.GetString(httpHostFlag)
	}
	if viper.IsSet(httpPortFlag) {
		cfg.HTTPPort = uint16(viper.GetUint(httpPortFlag))
	}
	if viper.IsSet(logLevelFlag) {
		level, err := logging.ToLevel(viper.GetString(logLevelFlag))
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = level
		cfg.LogDisplayLevel = level
	}
	return cfg, cfg.Verify()
}

// loadGenesis reads the --genesis file. Without one, both default tokens
// are allocated to the configured key, if any.
func loadGenesis(cmd *cobra.Command) (*genesis.Genesis, error) {
	if path := viper.GetString(genesisFlag); len(path) > 0 {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return genesis.Load(b)
	}
	factory, err := getFactory(cmd)
	if errors.Is(err, errMissingKey) {
		return genesis.NewDefaultGenesis(nil), nil
	}
	if err != nil {
		return nil, err
	}
	amount, err := int128.Parse(viper.GetString(fundAmountFlag))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", fundAmountFlag, err)
	}
	addr, err := codec.AddressBech32(consts.HRP, factory.Address())
	if err != nil {
		return nil, err
	}
	return genesis.NewDefaultGenesis([]*genesis.CustomAllocation{
		{Address: addr, Balance: amount},
	}), nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.String(configFlag, "", "Path to a JSON node config")
	flags.String(genesisFlag, "", "Path to a JSON genesis")
	flags.String(dataDirFlag, "", "Directory for the database and logs")
	flags.String(httpHostFlag, "", "Address to listen on")
	flags.Uint16(httpPortFlag, 0, "Port to listen on")
	flags.String(logLevelFlag, "", "Log level")
	flags.String(fundAmountFlag, defaultFundings, "Genesis balance of each token for the configured key")
}
