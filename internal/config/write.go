package config

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Write renders the document as HCL. Sections that are nil are omitted, so
// writing a freshly loaded user file does not invent settings the user never
// wrote; writing a merged document records everything.
func Write(w io.Writer, doc *Document) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	if doc.Project != nil {
		b := root.AppendNewBlock("stweave", nil).Body()
		b.SetAttributeValue("version", cty.StringVal(doc.Project.Version))
		b.SetAttributeValue("network_depth", cty.NumberIntVal(int64(doc.Project.NetworkDepth)))
		b.SetAttributeValue("network_width", cty.NumberIntVal(int64(doc.Project.NetworkWidth)))
	}

	if doc.Expansion != nil {
		root.AppendNewline()
		b := root.AppendNewBlock("expansion_strategy", nil).Body()
		b.SetAttributeValue("type", cty.StringVal(doc.Expansion.Type))
		names := make([]string, 0, len(doc.Expansion.Params))
		for name := range doc.Expansion.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.SetAttributeValue(name, doc.Expansion.Params[name])
		}
	}

	if doc.Optimization != nil {
		root.AppendNewline()
		b := root.AppendNewBlock("optimization", nil).Body()
		b.SetAttributeValue("epochs", cty.NumberIntVal(int64(doc.Optimization.Epochs)))
		b.SetAttributeValue("batch_size", cty.NumberIntVal(int64(doc.Optimization.BatchSize)))
		b.SetAttributeValue("patch_size", cty.NumberIntVal(int64(doc.Optimization.PatchSize)))
		b.SetAttributeValue("learning_rate", cty.NumberFloatVal(doc.Optimization.LearningRate))
		b.SetAttributeValue("checkpoint_interval", cty.NumberIntVal(int64(doc.Optimization.CheckpointInterval)))
	}

	for _, slide := range doc.Slides {
		root.AppendNewline()
		b := root.AppendNewBlock("slide", []string{slide.Path}).Body()
		if len(slide.Covariates) > 0 {
			values := make(map[string]cty.Value, len(slide.Covariates))
			for k, v := range slide.Covariates {
				values[k] = cty.StringVal(v)
			}
			b.SetAttributeValue("covariates", cty.MapVal(values))
		}
		if slide.Options != nil {
			ob := b.AppendNewBlock("options", nil).Body()
			if slide.Options.ScaleFactor != 0 {
				ob.SetAttributeValue("scale_factor", cty.NumberFloatVal(slide.Options.ScaleFactor))
			}
			if slide.Options.MinCounts != 0 {
				ob.SetAttributeValue("min_counts", cty.NumberIntVal(int64(slide.Options.MinCounts)))
			}
		}
	}

	if _, err := fmt.Fprintln(w, "# stweave project configuration"); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}

// WriteFile writes the document to path, replacing any existing file.
func WriteFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create project file %s: %w", path, err)
	}
	if err := Write(f, doc); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
