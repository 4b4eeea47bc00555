package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spigell/hh-matcher/internal/document"
	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/service"
	"github.com/spigell/hh-matcher/internal/skills"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the skills found in a resume file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		extract(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().Bool("text", false, "human readable output instead of JSON")
}

func extract(cmd *cobra.Command, path string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading resume", zap.String("path", path), zap.Error(err))
	}

	svc := service.New(service.Config{}, service.Deps{
		Extractor: skills.NewExtractor(skills.DefaultCatalog(), skills.WithLogger(logger)),
		Converter: document.New(),
		Logger:    logger,
	})

	extracted, err := svc.ProcessDocument(uuid.NewString(), data)
	if err != nil {
		logger.Fatal("processing resume", zap.Error(err), zap.String("hint", retryHint(err)))
	}

	if asText, _ := cmd.Flags().GetBool("text"); asText {
		printExtracted(cmd.OutOrStdout(), extracted)
		return
	}

	pretty, err := json.MarshalIndent(extracted, "", "  ")
	if err != nil {
		logger.Fatal("encoding skills", zap.Error(err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
}
