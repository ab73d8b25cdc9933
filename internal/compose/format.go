// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/flora-engine/pkg/types"
)

// FormatMarkdown renders a document as Markdown with YAML front matter,
// the shape downstream site templating consumes.
func FormatMarkdown(w io.Writer, doc types.Document) error {
	if _, err := fmt.Fprintf(w,
		"---\ntitle: %q\nsubject: %q\ndate: %s\nimage: %s\n---\n",
		doc.Meta.Title, doc.Meta.Subject, doc.Meta.Date, doc.Meta.Image); err != nil {
		return err
	}

	for _, blk := range doc.Blocks {
		var err error
		switch blk.Kind {
		case types.BlockHeading:
			_, err = fmt.Fprintf(w, "\n## %s\n", blk.Text)
		default:
			_, err = fmt.Fprintf(w, "\n%s\n", blk.Text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatJSON renders a document as indented JSON.
func FormatJSON(w io.Writer, doc types.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
