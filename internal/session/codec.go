package session

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/stweave/stweave/internal/ctxlog"
)

// Save encodes the session's overrides as a flat HCL document, one attribute
// per item in registration order. Items that cannot be persisted (no
// declared type, or a value the type cannot represent) are skipped with a
// warning rather than failing the save: a checkpoint with a missing callback
// beats no checkpoint at all.
func Save(ctx context.Context, w io.Writer, s *Session) error {
	logger := ctxlog.FromContext(ctx)
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for _, name := range s.Names() {
		value := s.overrides[name]
		item, err := s.reg.Lookup(name)
		if err != nil {
			return err
		}
		encoded, err := encodeValue(value, item)
		if err != nil {
			logger.Warn("Skipping item that cannot be persisted.", "item", name, "error", err)
			continue
		}
		body.SetAttributeValue(name, encoded)
	}
	if _, err := fmt.Fprintln(w, "# stweave session state"); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}

// SaveFile writes the session document to path, creating parent directories
// as needed.
func SaveFile(ctx context.Context, path string, s *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("session: creating directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("session: creating %s: %w", path, err)
	}
	if err := Save(ctx, f, s); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Load parses a persisted session document and rebuilds the session it
// describes. Unlike Save, loading is strict: syntax errors and undecodable
// values return a MalformedSessionError, and attributes naming unregistered
// items return an UnknownItemError. A corrupt document should stop a run,
// not silently degrade it.
func Load(ctx context.Context, src []byte, filename string, reg *Registry) (*Session, error) {
	logger := ctxlog.FromContext(ctx)
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, &MalformedSessionError{Filename: filename, Diags: diags}
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, &MalformedSessionError{Filename: filename, Diags: diags}
	}

	overrides := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		item, err := reg.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", attr.NameRange.String(), err)
		}
		value, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, &MalformedSessionError{Filename: filename, Diags: diags}
		}
		decoded, err := decodeValue(value, item)
		if err != nil {
			return nil, &MalformedSessionError{
				Filename: filename,
				Detail:   fmt.Sprintf("item %q at %s: %s", name, attr.Range.String(), err),
			}
		}
		overrides[name] = decoded
	}
	logger.Debug("Loaded session document.", "file", filename, "items", len(overrides))
	return &Session{reg: reg, overrides: overrides}, nil
}

// LoadFile reads and decodes the session document at path.
func LoadFile(ctx context.Context, path string, reg *Registry) (*Session, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("session: reading %s: %w", path, err)
	}
	return Load(ctx, src, path, reg)
}

// encodeValue converts an override into the cty value persisted for it.
// Unset becomes a typed null.
func encodeValue(value any, item Item) (cty.Value, error) {
	if item.Type == cty.NilType {
		return cty.NilVal, fmt.Errorf("item declares no persistence type")
	}
	if IsUnset(value) {
		return cty.NullVal(item.Type), nil
	}
	if value == nil {
		return cty.NilVal, fmt.Errorf("nil has no document representation")
	}
	impliedType, err := gocty.ImpliedType(value)
	if err != nil {
		return cty.NilVal, err
	}
	raw, err := gocty.ToCtyValue(value, impliedType)
	if err != nil {
		return cty.NilVal, err
	}
	converted, err := convert.Convert(raw, item.Type)
	if err != nil {
		return cty.NilVal, fmt.Errorf("converting to %s: %w", item.Type.FriendlyName(), err)
	}
	return converted, nil
}

// decodeValue converts a persisted cty value back into the item's in-memory
// value. Null restores Unset.
func decodeValue(value cty.Value, item Item) (any, error) {
	if item.Type == cty.NilType {
		return nil, fmt.Errorf("item is not persistable")
	}
	if value.IsNull() {
		return Unset, nil
	}
	converted, err := convert.Convert(value, item.Type)
	if err != nil {
		return nil, fmt.Errorf("converting to %s: %w", item.Type.FriendlyName(), err)
	}
	if item.Decode != nil {
		return item.Decode(converted)
	}
	return nativeValue(converted)
}

// nativeValue maps a scalar cty value onto the Go type it most naturally
// reads back as. Whole numbers decode as int; items that need a wider or
// more specific type declare their own Decode hook.
func nativeValue(value cty.Value) (any, error) {
	switch ty := value.Type(); {
	case ty == cty.String:
		var s string
		if err := gocty.FromCtyValue(value, &s); err != nil {
			return nil, err
		}
		return s, nil
	case ty == cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(value, &b); err != nil {
			return nil, err
		}
		return b, nil
	case ty == cty.Number:
		bf := value.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return int(i), nil
		}
		f, _ := bf.Float64()
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", value.Type().FriendlyName())
	}
}
