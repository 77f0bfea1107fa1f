package train

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/stweave/stweave/internal/version"
)

// writeMeta records which run produced a checkpoint and when.
func writeMeta(path, runID string, epoch int) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.SetAttributeValue("run_id", cty.StringVal(runID))
	body.SetAttributeValue("epoch", cty.NumberIntVal(int64(epoch)))
	body.SetAttributeValue("version", cty.StringVal(version.Version))
	body.SetAttributeValue("saved_at", cty.StringVal(time.Now().UTC().Format(time.RFC3339)))

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.WriteTo(out); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
