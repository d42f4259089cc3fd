package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. AUTONAV_DOCS_DIR.
const EnvPrefix = "AUTONAV"

type Config struct {
	SiteName         string   `mapstructure:"site_name"`
	SiteURL          string   `mapstructure:"site_url"`
	DocsDir          string   `mapstructure:"docs_dir"`
	SiteDir          string   `mapstructure:"site_dir"`
	UseDirectoryURLs bool     `mapstructure:"use_directory_urls"`
	ManifestName     string   `mapstructure:"manifest_name"`
	IndexName        string   `mapstructure:"index_name"`
	Exclude          []string `mapstructure:"exclude"`
	GeneratePages    bool     `mapstructure:"generate_pages"`
	Layout           string   `mapstructure:"layout"`
	LogLevel         string   `mapstructure:"log_level"`
}

// Defaults mirror the mkdocs conventions the generated manifests target.
func setDefaults(v *viper.Viper) {
	v.SetDefault("site_name", "My Docs")
	v.SetDefault("site_url", "")
	v.SetDefault("docs_dir", "docs")
	v.SetDefault("site_dir", "site")
	v.SetDefault("use_directory_urls", true)
	v.SetDefault("manifest_name", ".pages")
	v.SetDefault("index_name", "index.md")
	v.SetDefault("exclude", []string{})
	v.SetDefault("generate_pages", true)
	v.SetDefault("layout", "")
	v.SetDefault("log_level", "info")
}

// Load reads cfgFile, or autonav.yaml from dir when cfgFile is empty, layers
// AUTONAV_* environment variables on top and decodes the result. A missing
// default file is not an error; a missing explicit one is. The returned
// string names the file used, if any.
func Load(cfgFile, dir string) (Config, string, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if dir == "" {
			dir = "."
		}
		v.AddConfigPath(dir)
		v.SetConfigName("autonav")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var used string
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return Config{}, "", fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return cfg, used, nil
}
