package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nicolai-agersbaek/composer-json-modifier/internal/composer"
	"github.com/nicolai-agersbaek/composer-json-modifier/internal/config"
	"github.com/nicolai-agersbaek/composer-json-modifier/internal/directive"
	"github.com/nicolai-agersbaek/composer-json-modifier/internal/docfile"
	"github.com/nicolai-agersbaek/composer-json-modifier/internal/modify"
)

var (
	cfgFile      string
	verbose      bool
	printDoc     bool
	dryRun       bool
	composerPath string
	modifyPath   string
	outputPath   string

	cfg *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cjm",
		Short: "Parse and selectively edit composer.json manifests",
		Long: "cjm parses composer.json manifests and modify-composer.json directives,\n" +
			"and applies directive edits (add, remove, replace, modify, with glob-style\n" +
			"package patterns) to produce an updated manifest.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}
			if verbose || cfg.Verbose {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default .cjm.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	parseCmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a document file and report the result",
	}

	parseComposerCmd := &cobra.Command{
		Use:   "composer-json FILE",
		Short: "Parse a composer.json file",
		Args:  cobra.ExactArgs(1),
		RunE:  runParseComposer,
	}
	parseComposerCmd.Flags().BoolVarP(&printDoc, "print", "p", false, "Print the parsed document")

	parseModifyCmd := &cobra.Command{
		Use:   "modify FILE",
		Short: "Parse a modify-composer.json file (JSON or YAML)",
		Args:  cobra.ExactArgs(1),
		RunE:  runParseModify,
	}
	parseModifyCmd.Flags().BoolVarP(&printDoc, "print", "p", false, "Print the parsed document")

	parseCmd.AddCommand(parseComposerCmd)
	parseCmd.AddCommand(parseModifyCmd)

	modifyCmd := &cobra.Command{
		Use:   "modify",
		Short: "Apply a modify-composer.json directive to a composer.json manifest",
		RunE:  runModify,
	}
	modifyCmd.Flags().StringVarP(&composerPath, "composer-json", "c", "", "Manifest to edit (default from config)")
	modifyCmd.Flags().StringVarP(&modifyPath, "modify", "m", "", "Directive file to apply (default from config)")
	modifyCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the result to this path instead of the manifest")
	modifyCmd.Flags().BoolVarP(&printDoc, "print", "p", false, "Print the resulting manifest")
	modifyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report the changes without writing anything")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(modifyCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func runParseComposer(cmd *cobra.Command, args []string) error {
	doc, err := docfile.Load[composer.ComposerJSON](args[0])
	if err != nil {
		return err
	}
	fmt.Printf("successfully parsed %s file: %s\n", docfile.KindComposer, args[0])

	if printDoc {
		return printRendered(args[0], doc)
	}
	return nil
}

func runParseModify(cmd *cobra.Command, args []string) error {
	doc, err := loadDirective(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("successfully parsed %s file: %s\n", docfile.KindModify, args[0])

	if printDoc {
		return printRendered(args[0], doc)
	}
	return nil
}

func runModify(cmd *cobra.Command, args []string) error {
	if composerPath == "" {
		composerPath = cfg.ComposerFile
	}
	if modifyPath == "" {
		modifyPath = cfg.ModifyFile
	}

	manifest, err := docfile.Load[composer.ComposerJSON](composerPath)
	if err != nil {
		return err
	}
	log.Debug("parsed manifest", "file", composerPath, "require", manifest.Require.Len(), "require-dev", manifest.RequireDev.Len())

	d, err := loadDirective(modifyPath)
	if err != nil {
		return err
	}

	result, report := modify.Apply(manifest, d)
	for _, line := range report.Lines() {
		log.Debug(line)
	}
	fmt.Printf("applied %s to %s: %d change(s)\n", modifyPath, composerPath, report.Edits())

	if dryRun {
		for _, line := range report.Lines() {
			fmt.Println(line)
		}
		// Dry run computes and may display the result, but never writes.
		if printDoc {
			return printRendered(composerPath, result)
		}
		return nil
	}

	if printDoc {
		if err := printRendered(composerPath, result); err != nil {
			return err
		}
		if outputPath == "" {
			return nil
		}
	}

	target := composerPath
	if outputPath != "" {
		target = outputPath
	}
	if err := docfile.Write(target, result, cfg.Indent); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", target)
	return nil
}

func loadDirective(path string) (*directive.Directive, error) {
	if docfile.IsYAMLPath(path) {
		return docfile.LoadYAML[directive.Directive](path)
	}
	return docfile.Load[directive.Directive](path)
}

func printRendered(name string, doc any) error {
	text, err := docfile.Render(doc, cfg.Indent)
	if err != nil {
		return err
	}
	fmt.Printf("\n%s:\n%s", name, text)
	return nil
}
