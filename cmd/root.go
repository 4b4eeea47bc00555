package cmd

import (
	"errors"
	"log"

	"github.com/spigell/hh-matcher/internal/headhunter"
	"github.com/spigell/hh-matcher/internal/matching"
	"github.com/spigell/hh-matcher/internal/skills"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hh-matcher"
)

type Config struct {
	Search      *headhunter.SearchParams `mapstructure:"search"`
	ExcludeFile string                   `mapstructure:"exclude-file"`
	UserAgent   string                   `mapstructure:"user-agent"`
	TokenFile   string                   `mapstructure:"token-file"`
	Exclude     *struct {
		Employers []string
	}
	Pagination *PaginationConfig `mapstructure:"pagination"`
	Query      *QueryConfig      `mapstructure:"query"`
}

type PaginationConfig struct {
	PageSize   int `mapstructure:"page-size"`
	MaxResults int `mapstructure:"max-results"`
}

type QueryConfig struct {
	MaxTerms int `mapstructure:"max-terms"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hh-matcher extracts skills from a resume and ranks hh.ru vacancies against them",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("token-file", "HH_TOKEN_FILE"); err != nil {
		log.Fatalf("binding HH_TOKEN_FILE environment variable: %v", err)
	}

	viper.SetDefault("pagination.page-size", matching.DefaultPageSize)
	viper.SetDefault("pagination.max-results", matching.MaxResults)
	viper.SetDefault("query.max-terms", skills.DefaultQueryTerms)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hh-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Only match reads the config. Extract and version work without it.
	if matchCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	err := viper.ReadInConfig()
	if err == nil {
		return
	}

	// Without an explicit --config a missing file means defaults only.
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return
	}

	// We can't proceed if the config file parsed with error.
	log.Fatal(err)
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Pagination == nil {
		config.Pagination = &PaginationConfig{}
	}
	if config.Query == nil {
		config.Query = &QueryConfig{}
	}

	return config, nil
}
