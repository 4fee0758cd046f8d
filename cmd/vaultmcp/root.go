package main

import (
	"context"
	"fmt"
	"os"

	"vaultmcp/internal/config"
	"vaultmcp/internal/logging"
	"vaultmcp/internal/obsidian"
	"vaultmcp/internal/vault"
	"vaultmcp/pkg/fileops"

	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	apiKey     string
	baseURL    string
	vaultDir   string
	host       string
	port       int
	verbose    bool
}

type app struct {
	flags  globalFlags
	logger *logging.AppLogger
}

// NewRootCmd creates the root vaultmcp command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: logging.GetDefault()}

	root := &cobra.Command{
		Use:   "vaultmcp",
		Short: "MCP server for Obsidian vaults",
		Long: `vaultmcp exposes an Obsidian vault to AI assistants over the Model Context Protocol.

The vault is reached through the Obsidian Local REST API plugin, or read
straight from disk with --vault-dir. File paths given by clients are
resolved by exact, substring and fuzzy matching.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.configPath, "config", "c", "", "path to config file (default $XDG_CONFIG_HOME/vaultmcp/config.yaml)")
	pf.StringVar(&a.flags.apiKey, "api-key", "", "Local REST API key (overrides "+config.EnvAPIKey+" and the keyring)")
	pf.StringVar(&a.flags.baseURL, "base-url", "", "Local REST API base URL")
	pf.StringVar(&a.flags.vaultDir, "vault-dir", "", "serve this vault directory from disk instead of the REST API")
	pf.StringVar(&a.flags.host, "host", "", "HTTP listen host")
	pf.IntVarP(&a.flags.port, "port", "p", 0, "HTTP listen port")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log tool calls and vault changes")

	root.AddCommand(
		newServeCmd(a),
		newStdioCmd(a),
		newFindCmd(a),
		newReadCmd(a),
		newSetupCmd(a),
		newVersionCmd(),
	)

	return root
}

func (a *app) init() error {
	if a.flags.configPath != "" {
		if err := os.Setenv(config.EnvConfigPath, fileops.ExpandPath(a.flags.configPath)); err != nil {
			return fmt.Errorf("setting config path: %w", err)
		}
	}
	a.logger.SetVerbose(a.flags.verbose)
	return nil
}

// resolveConfig merges flags, environment, keyring and the config file.
func (a *app) resolveConfig() (*config.Config, error) {
	cfg, err := config.Resolve(config.Overrides{
		APIKey:   a.flags.apiKey,
		BaseURL:  a.flags.baseURL,
		VaultDir: fileops.ExpandPath(a.flags.vaultDir),
		Host:     a.flags.host,
		Port:     a.flags.port,
	}, config.NewCredentialManager())
	if err != nil && config.IsFirstRun() {
		return nil, fmt.Errorf("%w\nRun `vaultmcp setup` to create a configuration", err)
	}
	return cfg, err
}

// openedVault is the cached index over the configured backend.
type openedVault struct {
	index *vault.Index
	local *vault.LocalBackend // nil when using the REST API
}

func (v *openedVault) Close() error {
	if v.local != nil {
		return v.local.Close()
	}
	return nil
}

func (a *app) openVault(cfg *config.Config) (*openedVault, error) {
	if cfg.UsesLocalVault() {
		lb, err := vault.NewLocalBackend(cfg.VaultDir, cfg.Ignore)
		if err != nil {
			return nil, err
		}
		a.logger.Info("Serving vault from disk", "dir", lb.Dir())
		return &openedVault{index: vault.NewIndex(lb, cfg.CacheTTL, a.logger), local: lb}, nil
	}

	client, err := obsidian.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout, obsidian.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	a.logger.Info("Serving vault through the Local REST API", "base_url", cfg.BaseURL)
	return &openedVault{index: vault.NewIndex(client, cfg.CacheTTL, a.logger)}, nil
}

// watch keeps the index fresh for local vaults until ctx is done. A watcher
// that cannot start leaves the cache TTL in charge.
func (a *app) watch(ctx context.Context, v *openedVault) error {
	if v.local == nil {
		return nil
	}
	if err := vault.Watch(ctx, v.local, v.index, a.logger); err != nil {
		a.logger.Warn("File watching disabled", "error", err)
	}
	return nil
}
