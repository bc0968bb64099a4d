// Command oaipmh harvests metadata from OAI-PMH repositories.
//
// Mirror a repository into a single file:
//
//	$ oaipmh harvest https://digitalcommons.unmc.edu/do/oai/ > metadata.xml
//
// Inspect an endpoint:
//
//	$ oaipmh about https://export.arxiv.org/oai2 | jq .
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/harvestkit/oaipmh"
)

var rootCmd = &cobra.Command{
	Use:           "oaipmh",
	Short:         "Harvest metadata from OAI-PMH repositories",
	Long:          "oaipmh talks to OAI-PMH endpoints: identify repositories,\nlist sets and formats, and mirror records into a local file.",
	Version:       oaipmh.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Bool("post", false, "transmit parameters as POST body instead of query string")
	pf.Bool("verbose", false, "log every request")
	viper.BindPFlag("post", pf.Lookup("post"))
	viper.BindPFlag("verbose", pf.Lookup("verbose"))
	viper.SetEnvPrefix("OAIPMH")
	viper.AutomaticEnv()

	rootCmd.AddCommand(identifyCmd, aboutCmd, formatsCmd, setsCmd, identifiersCmd, recordsCmd, harvestCmd)

	for _, cmd := range []*cobra.Command{identifiersCmd, recordsCmd, harvestCmd} {
		cmd.Flags().String("prefix", "oai_dc", "OAI metadataPrefix")
		cmd.Flags().String("set", "", "OAI set")
		cmd.Flags().String("from", "", "OAI from (YYYY-MM-DD)")
		cmd.Flags().String("until", "", "OAI until (YYYY-MM-DD)")
	}
	formatsCmd.Flags().String("identifier", "", "restrict formats to one item")
	harvestCmd.Flags().String("cache", "", "cache directory, empty disables caching, \"default\" uses the home directory")
	harvestCmd.Flags().String("root", "", "name of synthetic root element to use")
	harvestCmd.Flags().Bool("identifiers", false, "harvest headers only")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient(endpoint string) *oaipmh.Client {
	level := zerolog.WarnLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	options := []oaipmh.Option{oaipmh.WithLogger(logger)}
	if viper.GetBool("post") {
		options = append(options, oaipmh.WithPost())
	}
	return oaipmh.NewClient(endpoint, options...)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(v)
}

func flagDate(cmd *cobra.Command, name string) (time.Time, error) {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: expected YYYY-MM-DD: %w", name, err)
	}
	return t, nil
}

func selection(cmd *cobra.Command) (string, oaipmh.Selection, error) {
	prefix, _ := cmd.Flags().GetString("prefix")
	set, _ := cmd.Flags().GetString("set")
	sel := oaipmh.Selection{Set: set}
	if s, _ := cmd.Flags().GetString("from"); s != "" {
		sel.From = oaipmh.RawDatestamp(s)
	}
	if s, _ := cmd.Flags().GetString("until"); s != "" {
		sel.Until = oaipmh.RawDatestamp(s)
	}
	return prefix, sel, nil
}

var identifyCmd = &cobra.Command{
	Use:   "identify ENDPOINT",
	Short: "Show the repository self-description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ident, err := newClient(args[0]).Identify(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(ident)
	},
}

var aboutCmd = &cobra.Command{
	Use:   "about ENDPOINT",
	Short: "Summarize an endpoint: identify, formats and sets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := newClient(args[0]).AboutEndpoint(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(info)
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats ENDPOINT",
	Short: "List metadata formats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		identifier, _ := cmd.Flags().GetString("identifier")
		formats, err := newClient(args[0]).ListMetadataFormats(cmd.Context(), identifier)
		if err != nil {
			return err
		}
		for _, f := range formats {
			if err := printJSON(f); err != nil {
				return err
			}
		}
		return nil
	},
}

var setsCmd = &cobra.Command{
	Use:   "sets ENDPOINT",
	Short: "List sets, one JSON document per line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		it := newClient(args[0]).ListSets(cmd.Context())
		for it.Next() {
			if err := printJSON(it.Item()); err != nil {
				return err
			}
		}
		return it.Err()
	},
}

var identifiersCmd = &cobra.Command{
	Use:   "identifiers ENDPOINT",
	Short: "List record headers, one JSON document per line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix, sel, err := selection(cmd)
		if err != nil {
			return err
		}
		it := newClient(args[0]).ListIdentifiers(cmd.Context(), prefix, sel)
		for it.Next() {
			if err := printJSON(it.Item()); err != nil {
				return err
			}
		}
		return it.Err()
	},
}

var recordsCmd = &cobra.Command{
	Use:   "records ENDPOINT",
	Short: "List full records, one JSON document per line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix, sel, err := selection(cmd)
		if err != nil {
			return err
		}
		it := newClient(args[0]).ListRecords(cmd.Context(), prefix, sel)
		for it.Next() {
			if err := printJSON(it.Item()); err != nil {
				return err
			}
		}
		return it.Err()
	},
}

var harvestCmd = &cobra.Command{
	Use:   "harvest ENDPOINT",
	Short: "Mirror raw record XML to stdout, windowed and cacheable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix, _ := cmd.Flags().GetString("prefix")
		set, _ := cmd.Flags().GetString("set")
		from, err := flagDate(cmd, "from")
		if err != nil {
			return err
		}
		until, err := flagDate(cmd, "until")
		if err != nil {
			return err
		}

		h := oaipmh.NewHarvester(newClient(args[0]))
		if root, _ := cmd.Flags().GetString("root"); root != "" {
			h.RootTag = root
		}
		switch dir, _ := cmd.Flags().GetString("cache"); dir {
		case "":
		case "default":
			if h.Cache, err = oaipmh.NewHomeDirCache(); err != nil {
				return err
			}
		default:
			if h.Cache, err = oaipmh.NewDirCache(dir); err != nil {
				return err
			}
		}

		verb := oaipmh.VerbListRecords
		if only, _ := cmd.Flags().GetBool("identifiers"); only {
			verb = oaipmh.VerbListIdentifiers
		}
		return h.Run(cmd.Context(), os.Stdout, verb, prefix, set, from, until)
	},
}
