package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/webpack4r/webpack4r/internal/utils"
)

// siteConfig mirrors one entry of the "sites" map in webpack4r.yml.
// Pointer fields distinguish "unset, inherit" from an explicit override.
type siteConfig struct {
	Manifest       string   `mapstructure:"manifest"`
	Cache          *bool    `mapstructure:"cache"`
	BasePath       string   `mapstructure:"base_path"`
	WatchedPaths   []string `mapstructure:"watched_paths"`
	BuildCommand   string   `mapstructure:"build_command"`
	InstallCommand string   `mapstructure:"install_command"`
}

// Load builds a configuration tree from webpack4r.yml plus WEBPACK4R_*
// environment overrides. An empty path searches the working directory and
// ./config; a missing file there yields a defaults-only root. Sites are
// attached in id order so the tree is deterministic regardless of map
// iteration.
func Load(path string) (*Configuration, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(utils.ExpandPath(path))
	} else {
		v.SetConfigName("webpack4r")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config")
	}

	v.SetEnvPrefix("WEBPACK4R")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound || path != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	root := NewRoot()
	applyRoot(root, v)

	var sites map[string]siteConfig
	if err := v.UnmarshalKey("sites", &sites); err != nil {
		return nil, fmt.Errorf("invalid sites section: %w", err)
	}

	ids := make([]string, 0, len(sites))
	for id := range sites {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		sc := sites[id]
		child, err := root.Add(id, sc.Manifest)
		if err != nil {
			return nil, err
		}
		applySite(child, sc)
	}

	return root, nil
}

func applyRoot(root *Configuration, v *viper.Viper) {
	if v.IsSet("root_path") {
		root.SetRootPath(utils.ExpandPath(v.GetString("root_path")))
	} else {
		wd, err := os.Getwd()
		if err == nil {
			root.SetRootPath(wd)
		}
	}
	if v.IsSet("cache") {
		root.SetCache(v.GetBool("cache"))
	}
	if v.IsSet("base_path") {
		root.SetBasePath(v.GetString("base_path"))
	}
	if v.IsSet("manifest") {
		root.SetManifest(v.GetString("manifest"))
	}
	if v.IsSet("watched_paths") {
		root.SetWatchedPaths(v.GetStringSlice("watched_paths"))
	}
	if v.IsSet("build_command") {
		root.SetBuildCommand(v.GetString("build_command"))
	}
	if v.IsSet("install_command") {
		root.SetInstallCommand(v.GetString("install_command"))
	}
}

func applySite(site *Configuration, sc siteConfig) {
	if sc.Cache != nil {
		site.SetCache(*sc.Cache)
	}
	if sc.BasePath != "" {
		site.SetBasePath(sc.BasePath)
	}
	if sc.WatchedPaths != nil {
		site.SetWatchedPaths(sc.WatchedPaths)
	}
	if sc.BuildCommand != "" {
		site.SetBuildCommand(sc.BuildCommand)
	}
	if sc.InstallCommand != "" {
		site.SetInstallCommand(sc.InstallCommand)
	}
}
