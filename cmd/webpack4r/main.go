package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/webpack4r/webpack4r/internal/cache"
	"github.com/webpack4r/webpack4r/internal/config"
	"github.com/webpack4r/webpack4r/internal/manifest"
	"github.com/webpack4r/webpack4r/internal/runner"
	"github.com/webpack4r/webpack4r/internal/utils"
	"github.com/webpack4r/webpack4r/internal/watcher"
	"github.com/webpack4r/webpack4r/pkg/version"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "webpack4r",
	Short: "Bridge server-side applications with webpack",
	Long: `webpack4r resolves per-site webpack configurations and compiled-asset
manifests. Each site declared in webpack4r.yml carries its own source
paths, build and install commands, and manifest location, inheriting
everything else from the root configuration.`,
	Version:           version.Short(),
	SilenceUsage:      true,
	PersistentPreRun:  setup,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./webpack4r.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	buildCmd.Flags().Bool("force", false, "Build even when watched files are unchanged")
	manifestCmd.Flags().String("site", "", "Site id (default: the default manifest)")
	manifestCmd.Flags().Duration("wait", 0, "Wait up to this long for the manifest to appear")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func setup(cmd *cobra.Command, args []string) {
	logLevel := "info"
	if verbose {
		logLevel = "debug"
	}
	log = utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  "pretty",
		Verbose: verbose,
	})
}

// loadTree loads the configuration tree from the configured file
func loadTree() (*config.Configuration, error) {
	root, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return root, nil
}

// selectLeaves narrows the active leaves to one site when requested
func selectLeaves(root *config.Configuration, site string) ([]*config.Configuration, error) {
	leaves := root.Leaves()
	if site == "" {
		return leaves.All(), nil
	}
	leaf, err := leaves.Find(site)
	if err != nil {
		return nil, err
	}
	return []*config.Configuration{leaf}, nil
}

// openStore opens the digest store under the root's cache path
func openStore(root *config.Configuration) (*cache.Store, error) {
	dir := root.CachePath()
	if err := utils.EnsureDir(dir); err != nil {
		return nil, err
	}
	return cache.NewStore(cache.Options{Directory: dir})
}

func newRunner(store *cache.Store) *runner.Runner {
	return runner.New(runner.Options{
		Store:  store,
		Logger: log,
	})
}

var buildCmd = &cobra.Command{
	Use:   "build [site]",
	Short: "Run the bundler build for one site or all sites",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := loadTree()
		if err != nil {
			return err
		}

		site := ""
		if len(args) == 1 {
			site = args[0]
		}
		leaves, err := selectLeaves(root, site)
		if err != nil {
			return err
		}

		store, err := openStore(root)
		if err != nil {
			return err
		}
		defer store.Close()

		force, _ := cmd.Flags().GetBool("force")
		r := newRunner(store)

		ctx := signalContext()
		for _, leaf := range leaves {
			if err := r.Build(ctx, leaf, force); err != nil {
				return err
			}
		}
		return nil
	},
}

var installCmd = &cobra.Command{
	Use:   "install [site]",
	Short: "Run the dependency install command for one site or all sites",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := loadTree()
		if err != nil {
			return err
		}

		site := ""
		if len(args) == 1 {
			site = args[0]
		}
		leaves, err := selectLeaves(root, site)
		if err != nil {
			return err
		}

		r := newRunner(nil)
		ctx := signalContext()
		for _, leaf := range leaves {
			if err := r.Install(ctx, leaf); err != nil {
				return err
			}
		}
		return nil
	},
}

var manifestCmd = &cobra.Command{
	Use:   "manifest <entry>",
	Short: "Resolve a logical entry to its hashed output path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := loadTree()
		if err != nil {
			return err
		}

		repo, err := root.Manifests()
		if err != nil {
			return err
		}

		site, _ := cmd.Flags().GetString("site")
		var m *manifest.Manifest
		if site == "" {
			m = repo.Default()
			if m == nil {
				return fmt.Errorf("no manifests configured")
			}
		} else {
			m, err = repo.Get(site)
			if err != nil {
				return err
			}
		}

		if wait, _ := cmd.Flags().GetDuration("wait"); wait > 0 {
			opts := manifest.DefaultWaitOptions()
			opts.MaxElapsedTime = wait
			if err := m.WaitUntilExists(cmd.Context(), opts); err != nil {
				return err
			}
		}

		path, err := m.Lookup(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := loadTree()
		if err != nil {
			return err
		}
		out, err := root.Snapshot().YAML()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild sites when their watched files change",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := loadTree()
		if err != nil {
			return err
		}

		store, err := openStore(root)
		if err != nil {
			return err
		}
		defer store.Close()

		r := newRunner(store)
		ctx := signalContext()

		rebuild := func(ctx context.Context) {
			for _, leaf := range root.Leaves().All() {
				if err := r.Build(ctx, leaf, false); err != nil {
					log.Error().Str("site", leaf.ID()).Err(err).Msg("Build failed")
				}
			}
		}

		// Bring everything up to date before watching
		rebuild(ctx)

		w, err := newWatcher(root, rebuild)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()

		<-ctx.Done()
		log.Info().Msg("Shutting down")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}

func newWatcher(root *config.Configuration, rebuild watcher.OnChange) (*watcher.Watcher, error) {
	return watcher.New(root, rebuild, watcher.Options{
		Debounce: watchDebounce,
		Logger:   log,
	})
}

// signalContext returns a context cancelled on SIGINT/SIGTERM
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx
}

// debounce applied between a change burst and the rebuild it triggers
const watchDebounce = 500 * time.Millisecond
