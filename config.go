package cstyle

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Role classifies a path by the kind of source file it holds
type Role string

const (
	RoleHeader Role = "header"
	RoleSource Role = "source"
	RoleOther  Role = "other"
)

type Config struct {
	Project          string         `yaml:"project" mapstructure:"project"`
	HeaderExtensions []string       `yaml:"header_extensions" mapstructure:"header_extensions"`
	SourceExtensions []string       `yaml:"source_extensions" mapstructure:"source_extensions"`
	Guard            GuardConfig    `yaml:"guard" mapstructure:"guard"`
	Legal            LegalConfig    `yaml:"legal" mapstructure:"legal"`
	Sections         SectionsConfig `yaml:"sections" mapstructure:"sections"`
	Filename         FilenameConfig `yaml:"filename" mapstructure:"filename"`
	Incremental      bool           `yaml:"incremental" mapstructure:"incremental"`
	CacheFile        string         `yaml:"cache_file" mapstructure:"cache_file"`
}

type GuardConfig struct {
	AllowPragmaOnce bool `yaml:"allow_pragma_once" mapstructure:"allow_pragma_once"`
}

type LegalConfig struct {
	License      string `yaml:"license" mapstructure:"license"`
	Template     string `yaml:"template" mapstructure:"template"`
	CommentStart string `yaml:"comment_start" mapstructure:"comment_start"`
	LinePrefix   string `yaml:"line_prefix" mapstructure:"line_prefix"`
	CommentEnd   string `yaml:"comment_end" mapstructure:"comment_end"`
	Tolerance    string `yaml:"tolerance" mapstructure:"tolerance"`
}

type SectionsConfig struct {
	Header []string `yaml:"header" mapstructure:"header"`
	Source []string `yaml:"source" mapstructure:"source"`
}

type FilenameConfig struct {
	FilePattern string   `yaml:"file_pattern" mapstructure:"file_pattern"`
	DirPattern  string   `yaml:"dir_pattern" mapstructure:"dir_pattern"`
	Allowlist   []string `yaml:"allowlist" mapstructure:"allowlist"`
}

// Whitespace tolerance modes for legal header comparison
const (
	ToleranceStrict   = "strict"   // notice lines must match byte for byte
	ToleranceTrailing = "trailing" // trailing whitespace is ignored
	ToleranceLoose    = "loose"    // interior whitespace runs collapse to one space
)

// DefaultHeaderSections is the canonical banner order for header files
var DefaultHeaderSections = []string{
	"includes",
	"macros/defines",
	"type declarations",
	"function declarations",
}

// DefaultSourceSections is the canonical banner order for source files
var DefaultSourceSections = []string{
	"includes",
	"macros/defines",
	"type declarations",
	"global variables",
	"local function declarations",
	"function implementations",
	"local function implementations",
}

// LoadConfig loads the .cstyle configuration. A missing config file is not
// an error: every knob has a default so the checks work out of the box in a
// fresh repository. An explicitly named but unreadable file still fails.
func LoadConfig(fs afero.Fs, path string, cfgFile string) (Config, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("yml")

	explicit := false

	fileInfo, statErr := fs.Stat(cfgFile)
	if statErr == nil && !fileInfo.IsDir() {
		v.SetConfigFile(cfgFile)
		explicit = true
	} else {
		if cfgFile != "" {
			if strings.HasSuffix(cfgFile, ".yml") || strings.HasSuffix(cfgFile, ".yaml") {
				v.SetConfigFile(cfgFile)
				explicit = true
			} else {
				v.SetConfigName(cfgFile)
			}
		} else {
			v.SetConfigName(".cstyle")
		}

		v.AddConfigPath(path)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.cstyle")
		v.AddConfigPath("./.cstyle")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && !explicit {
			// fall through to defaults
		} else if explicit {
			return Config{}, NewConfigError("failed loading config file", err)
		} else if !errors.As(err, &notFound) {
			return Config{}, NewConfigError("failed loading config file", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, NewConfigError("failed unmarshaling config file", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("project", "")
	v.SetDefault("header_extensions", []string{".h"})
	v.SetDefault("source_extensions", []string{".c"})
	v.SetDefault("guard.allow_pragma_once", true)
	v.SetDefault("legal.license", "gpl3+")
	v.SetDefault("legal.template", "")
	v.SetDefault("legal.comment_start", "/*")
	v.SetDefault("legal.line_prefix", " *")
	v.SetDefault("legal.comment_end", " */")
	v.SetDefault("legal.tolerance", ToleranceTrailing)
	v.SetDefault("sections.header", DefaultHeaderSections)
	v.SetDefault("sections.source", DefaultSourceSections)
	v.SetDefault("filename.file_pattern", `^[a-z\d_.]+$`)
	v.SetDefault("filename.dir_pattern", `^[a-z\d_-]+$`)
	v.SetDefault("filename.allowlist", []string{"CMakeLists.txt", "LICENSE"})
	v.SetDefault("incremental", false)
	v.SetDefault("cache_file", ".cstyle.cache")
}

// RoleOf classifies a path as header, source or other by its extension
func (c Config) RoleOf(path string) Role {
	ext := strings.ToLower(filepath.Ext(path))
	for _, h := range c.HeaderExtensions {
		if ext == strings.ToLower(h) {
			return RoleHeader
		}
	}
	for _, s := range c.SourceExtensions {
		if ext == strings.ToLower(s) {
			return RoleSource
		}
	}
	return RoleOther
}

// IsHeader reports whether the path is a header-like file
func (c Config) IsHeader(path string) bool {
	return c.RoleOf(path) == RoleHeader
}

// IsSource reports whether the path is a source file
func (c Config) IsSource(path string) bool {
	return c.RoleOf(path) == RoleSource
}
