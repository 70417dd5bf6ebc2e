// Command schema writes the unit definition and result record JSON schemas
// to disk, the same offline-generator shape as the teacher's
// effects/catalog/cmd/schema command.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"castlerush/internal/proto"
)

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write schema files into")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	if err := writeSchema(filepath.Join(outDir, "unit_definition.schema.json"), proto.BuildUnitDefinitionSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write unit definition schema: %v\n", err)
		os.Exit(1)
	}
	if err := writeSchema(filepath.Join(outDir, "result_record.schema.json"), proto.BuildResultRecordSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write result record schema: %v\n", err)
		os.Exit(1)
	}
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}
	data = append(data, '\n')
	return os.WriteFile(outPath, data, 0o644)
}
