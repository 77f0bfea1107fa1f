package config

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/stweave/stweave/internal/ctxlog"
	"github.com/stweave/stweave/internal/version"
)

// documentHCL is the raw decode target. Expansion needs special handling:
// its parameters are an open attribute set gohcl cannot map onto a struct.
type documentHCL struct {
	Project      *Project      `hcl:"stweave,block"`
	Expansion    *expansionHCL `hcl:"expansion_strategy,block"`
	Optimization *Optimization `hcl:"optimization,block"`
	Slides       []*Slide      `hcl:"slide,block"`
}

type expansionHCL struct {
	Type   string   `hcl:"type,optional"`
	Remain hcl.Body `hcl:",remain"`
}

// Load parses the project file at path. Sections the file omits are left
// nil; Merge fills them from the defaults.
func Load(ctx context.Context, path string) (*Document, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse project file %s: %w", path, diags)
	}

	var root documentHCL
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode project file %s: %w", path, diags)
	}

	doc := &Document{
		Project:      root.Project,
		Optimization: root.Optimization,
		Slides:       root.Slides,
	}
	if root.Expansion != nil {
		params, err := expansionParams(root.Expansion.Remain)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		doc.Expansion = &Expansion{Type: root.Expansion.Type, Params: params}
	}

	logger.Debug("Loaded project file.", "path", path, "slides", len(doc.Slides))
	return doc, nil
}

// expansionParams evaluates the free-form attributes of the
// expansion_strategy block.
func expansionParams(body hcl.Body) (map[string]cty.Value, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid expansion_strategy block: %w", diags)
	}
	params := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		value, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid expansion_strategy parameter %q: %w", name, diags)
		}
		params[name] = value
	}
	return params, nil
}

// ReconcileVersion warns when the document was written by a different
// release and stamps it with the running one, so the merged file saved with
// the run records what actually interpreted it.
func (d *Document) ReconcileVersion(ctx context.Context) {
	if d.Project == nil {
		d.Project = &Project{Version: version.Version}
		return
	}
	if d.Project.Version != "" && d.Project.Version != version.Version {
		ctxlog.FromContext(ctx).Warn(
			"Project file was written by a different stweave version.",
			"file_version", d.Project.Version,
			"this_version", version.Version,
		)
	}
	d.Project.Version = version.Version
}
