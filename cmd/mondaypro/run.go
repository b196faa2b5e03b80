package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/robby/mondaypro/internal/jq"
	"github.com/robby/mondaypro/internal/node"
	"github.com/robby/mondaypro/internal/operations"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type runOptions struct {
	params         string
	paramsFile     string
	jqExpr         string
	continueOnFail bool
	output         string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <resource> <operation>",
		Short: "Execute one operation over a batch of parameter items",
		Long: `Run executes resource.operation once per input item.

Items come from --params or --params-file as a JSON or YAML object (one item)
or array (many items). Use 'mondaypro operations' to list what is available.

Examples:
  mondaypro run board get --params '{"boardId": "1234"}'
  mondaypro run boardItem getAll --params-file items.yaml --jq '.[].json.name'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, opts, operations.Resource(args[0]), operations.Operation(args[1]))
		},
	}

	cmd.Flags().StringVarP(&opts.params, "params", "p", "", "Parameters as a JSON or YAML object or array")
	cmd.Flags().StringVarP(&opts.paramsFile, "params-file", "f", "", "Read parameters from a file ('-' for stdin)")
	cmd.Flags().StringVar(&opts.jqExpr, "jq", "", "Filter the results with a jq expression")
	cmd.Flags().BoolVar(&opts.continueOnFail, "continue-on-fail", false, "Record failed items as {\"error\": ...} and keep going")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "json", "Output format (json, yaml)")
	cmd.MarkFlagsMutuallyExclusive("params", "params-file")

	return cmd
}

func runOperation(cmd *cobra.Command, opts *runOptions, resource operations.Resource, operation operations.Operation) error {
	if opts.output != "json" && opts.output != "yaml" {
		return fmt.Errorf("unsupported output format %q", opts.output)
	}

	// Reject unknown operations before touching credentials
	if _, err := operations.Default().Lookup(resource, operation); err != nil {
		return err
	}

	filter, err := jq.Compile(opts.jqExpr, 0, 0)
	if err != nil {
		return err
	}

	source := []byte(opts.params)
	if opts.paramsFile != "" {
		source, err = readParamsFile(cmd.InOrStdin(), opts.paramsFile)
		if err != nil {
			return err
		}
	}
	items, err := parseParams(source)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	rt, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	n := node.New(rt.client, rt.log)
	n.ContinueOnFail = opts.continueOnFail

	results, err := n.Run(ctx, resource, operation, items)
	if err != nil {
		return err
	}
	if results == nil {
		results = []node.Result{}
	}

	out, err := filter.Apply(ctx, results)
	if err != nil {
		return err
	}

	var value any = out
	if opts.jqExpr == "" && len(out) == 1 {
		value = out[0]
	}
	return writeOutput(cmd.OutOrStdout(), opts.output, value)
}

func readParamsFile(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return data, errors.Wrap(err, "failed to read parameters from stdin")
	}
	data, err := os.ReadFile(path)
	return data, errors.Wrapf(err, "failed to read %s", path)
}

// parseParams decodes a JSON or YAML document into input items. An object is a
// single item, an array is one item per element and empty input is one empty item.
func parseParams(data []byte) ([]operations.Params, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []operations.Params{{}}, nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse parameters")
	}

	switch v := doc.(type) {
	case nil:
		return []operations.Params{{}}, nil
	case map[string]any:
		return []operations.Params{operations.Params(v)}, nil
	case []any:
		items := make([]operations.Params, 0, len(v))
		for i, entry := range v {
			switch m := entry.(type) {
			case map[string]any:
				items = append(items, operations.Params(m))
			case nil:
				items = append(items, operations.Params{})
			default:
				return nil, fmt.Errorf("parameter item %d must be an object, got %T", i, entry)
			}
		}
		return items, nil
	}
	return nil, fmt.Errorf("parameters must be an object or an array of objects, got %T", doc)
}

func writeOutput(w io.Writer, format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "failed to encode output")
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "failed to encode output")
}

// newOperationsCmd lists the registered resource.operation pairs.
func newOperationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "operations [resource]",
		Short: "List available operations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			found := false
			for _, key := range operations.Default().Keys() {
				if len(args) == 1 && !strings.EqualFold(string(key.Resource), args[0]) {
					continue
				}
				found = true
				fmt.Fprintf(w, "%-12s %s\n", key.Resource, key.Operation)
			}
			if !found && len(args) == 1 {
				return fmt.Errorf("unknown resource %q", args[0])
			}
			return nil
		},
	}
}
