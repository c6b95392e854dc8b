package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/effective-security/bioportal/pkg/bioportal"
	"github.com/effective-security/bioportal/tools"
	"github.com/effective-security/bioportal/tools/ontology"
	"github.com/effective-security/xlog"
	mcpserver "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"
	"github.com/spf13/cobra"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/bioportal", "cli")

const version = "0.2.0"

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "bioportal-mcp",
	Short: "MCP server exposing BioPortal ontology tools",
	Long: `Start the Model Context Protocol server for BioPortal.

The server communicates over stdio and exposes the following tools:
  - search_ontology_terms: search ontology terms by query
  - search_ontology_properties: search ontology properties by query
  - get_ontology_analytics: ontology visit analytics
  - annotate_text: recognize ontology terms in free text

A BioPortal API key is required, either in the configuration file or
in the BIOPORTAL_API_KEY environment variable.`,
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "cfg", "", "path to the yaml configuration file")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	// stdout carries the protocol, logs go to stderr
	xlog.SetFormatter(xlog.NewPrettyFormatter(os.Stderr))
	level := xlog.INFO
	if debug {
		level = xlog.DEBUG
	}
	xlog.SetGlobalLogLevel(level)

	cfg, err := bioportal.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	client, err := bioportal.NewClient(cfg)
	if err != nil {
		return err
	}

	list, err := newTools(client)
	if err != nil {
		return err
	}

	server := mcpserver.NewServer(stdio.NewStdioServerTransport(),
		mcpserver.WithName("bioportal"),
		mcpserver.WithVersion(version),
	)
	for _, tool := range list {
		if err := tool.RegisterMCP(server); err != nil {
			return err
		}
	}
	if err := server.Serve(); err != nil {
		return err
	}
	logger.KV(xlog.INFO, "status", "serving", "version", version, "tools", len(list))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.KV(xlog.INFO, "status", "stopped")
	return nil
}

func newTools(client *bioportal.Client) ([]tools.IMCPTool, error) {
	terms, err := ontology.NewTermSearchTool(client)
	if err != nil {
		return nil, err
	}
	properties, err := ontology.NewPropertySearchTool(client)
	if err != nil {
		return nil, err
	}
	analytics, err := ontology.NewAnalyticsTool(client)
	if err != nil {
		return nil, err
	}
	annotate, err := ontology.NewAnnotateTool(client)
	if err != nil {
		return nil, err
	}
	return []tools.IMCPTool{terms, properties, analytics, annotate}, nil
}
