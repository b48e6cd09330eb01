package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/sid-acryl/lookml-lineage/pkg/config"
	"github.com/sid-acryl/lookml-lineage/pkg/logger"
	"github.com/sid-acryl/lookml-lineage/pkg/lookml"
	"github.com/sid-acryl/lookml-lineage/pkg/resolver"
	"github.com/sid-acryl/lookml-lineage/pkg/sqlparser"
	"github.com/sid-acryl/lookml-lineage/pkg/templating"
	"github.com/sid-acryl/lookml-lineage/pkg/upstream"
)

func Lineage(isDebug *bool) *cli.Command {
	return &cli.Command{
		Name:      "lineage",
		Usage:     "resolve upstream dataset and column lineage for parsed LookML view files",
		ArgsUsage: "[path to the folder holding parsed view files]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-file",
				Aliases: []string{"c"},
				Usage:   "the path to the source config file",
				Value:   "lookml-lineage.yml",
			},
			&cli.StringFlag{
				Name:  "connection",
				Usage: "the name of the connection the views resolve against, required when the config defines more than one",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "the output type, possible values are: plain, json",
				Value:   "plain",
			},
		},
		Action: func(c *cli.Context) error {
			r := LineageCommand{
				fs:  afero.NewOsFs(),
				log: makeLogger(*isDebug),
			}

			basePath := c.Args().First()
			if basePath == "" {
				basePath = "."
			}

			return r.Run(
				basePath,
				c.String("config-file"),
				c.String("connection"),
				strings.ToLower(c.String("output")),
			)
		},
	}
}

type LineageCommand struct {
	fs  afero.Fs
	log logger.Logger
}

// ViewLineage is the per-view output of the lineage command.
type ViewLineage struct {
	Name      string           `json:"name"`
	File      string           `json:"file"`
	Binding   string           `json:"binding"`
	Upstreams []string         `json:"upstreams"`
	Fields    []upstream.Field `json:"fields"`
}

func (r *LineageCommand) Run(basePath, configFilePath, connectionName, output string) error {
	defer RecoverFromPanic()

	cfg, err := config.LoadFromFile(r.fs, configFilePath)
	if err != nil {
		printError(err, output, "Failed to load the config file at "+configFilePath)
		return cli.Exit("", 1)
	}

	conn, err := pickConnection(cfg, connectionName)
	if err != nil {
		printError(err, output, "Failed to pick a connection")
		return cli.Exit("", 1)
	}

	if cfg.BaseFolderPath == "" {
		cfg.BaseFolderPath = basePath
	}

	results, err := r.resolve(cfg, conn, basePath)
	if err != nil {
		printError(err, output, "Failed to resolve lineage")
		return cli.Exit("", 1)
	}

	if output == "json" {
		js, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			printErrorJSON(err)
			return cli.Exit("", 1)
		}

		fmt.Println(string(js))
		return nil
	}

	printPlain(results)

	return nil
}

func (r *LineageCommand) resolve(cfg *config.Config, conn config.Connection, basePath string) ([]ViewLineage, error) {
	paths, err := resolver.DiscoverViewFiles(r.fs, basePath)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		return nil, errors.Errorf("no '%s' files found under %s", resolver.ViewFileSuffix, basePath)
	}

	transformers := templating.DefaultTransformers(cfg, r.log)
	index := resolver.NewViewFileIndex()
	viewFiles := make(map[string]map[string]interface{}, len(paths))

	for _, path := range paths {
		buf, err := afero.ReadFile(r.fs, path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read view file %s", path)
		}

		var viewFile map[string]interface{}
		if err := json.Unmarshal(buf, &viewFile); err != nil {
			return nil, errors.Wrapf(err, "failed to parse view file %s", path)
		}

		templating.ProcessViewFile(viewFile, transformers)
		index.AddFile(path, viewFile)
		viewFiles[path] = viewFile
	}

	cache := resolver.NewIdentityCache(cfg.ModelName, index, r.log)

	results := make([]ViewLineage, 0)
	for _, path := range paths {
		views, _ := viewFiles[path][lookml.ViewsKey].([]interface{})
		for _, raw := range views {
			view, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}

			results = append(results, r.resolveView(cfg, conn, cache, view, path))
		}
	}

	return results, nil
}

func (r *LineageCommand) resolveView(
	cfg *config.Config,
	conn config.Connection,
	cache *resolver.IdentityCache,
	view map[string]interface{},
	path string,
) ViewLineage {
	viewCtx := &lookml.ViewContext{
		View:           view,
		FilePath:       path,
		BaseFolderPath: cfg.BaseFolderPath,
		Connection:     conn,
	}

	up := upstream.New(upstream.Params{
		ViewContext: viewCtx,
		Cache:       cache,
		Config:      cfg,
		Parser:      &unavailableParser{},
		Logger:      r.log,
	})

	fields := make([]upstream.Field, 0)
	for _, field := range viewCtx.Fields() {
		fields = append(fields, upstream.Field{
			Name:      field.Name(),
			Upstreams: up.UpstreamColumns(field),
		})
	}

	// Views that declare no fields can still get them from parsed lineage.
	if len(fields) == 0 {
		fields = up.CreateFields()
	}

	return ViewLineage{
		Name:      viewCtx.Name(),
		File:      path,
		Binding:   up.Kind().String(),
		Upstreams: up.UpstreamDatasets(),
		Fields:    fields,
	}
}

func pickConnection(cfg *config.Config, name string) (config.Connection, error) {
	if name != "" {
		conn, ok := cfg.GetConnection(name)
		if !ok {
			return config.Connection{}, errors.Errorf("connection %q is not defined in the config", name)
		}

		return conn, nil
	}

	if len(cfg.Connections) != 1 {
		return config.Connection{}, errors.New("the config defines multiple connections, pass --connection to pick one")
	}

	for _, conn := range cfg.Connections {
		return conn, nil
	}

	return config.Connection{}, errors.New("the config defines no connections")
}

func printPlain(results []ViewLineage) {
	for _, result := range results {
		successPrinter.Printf("%s (%s)\n", result.Name, result.Binding)
		for _, upstreamURN := range result.Upstreams {
			fmt.Printf("  <- %s\n", upstreamURN)
		}

		for _, field := range result.Fields {
			for _, ref := range field.Upstreams {
				fmt.Printf("  %s <- %s.%s\n", field.Name, ref.Table, ref.Column)
			}
		}
	}
}

// unavailableParser stands in for the external SQL-lineage engine, which is
// not bundled with the CLI. SQL-derived views degrade to empty lineage with a
// warning, the same soft-failure path as a parse error.
type unavailableParser struct{}

func (p *unavailableParser) ParseLineage(request sqlparser.Request) (*sqlparser.Result, error) {
	return nil, errors.New("no SQL lineage engine is wired into the CLI")
}
