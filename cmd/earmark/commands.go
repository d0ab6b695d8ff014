package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/FocuswithJustin/earmark/core/earmark"
	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/core/format"
	"github.com/FocuswithJustin/earmark/core/format/ntriples"
	"github.com/FocuswithJustin/earmark/core/pattern"
	"github.com/FocuswithJustin/earmark/core/sqlite"
	"github.com/FocuswithJustin/earmark/internal/archive"
	"github.com/FocuswithJustin/earmark/internal/logging"
)

// InfoCmd summarizes a document.
type InfoCmd struct {
	Path   string `arg:"" help:"Document file" type:"existingfile"`
	Format string `short:"f" help:"Input format (detected when empty)"`
}

func (c *InfoCmd) Run(env *Env) error {
	doc, err := env.load(c.Path, c.Format)
	if err != nil {
		return err
	}

	var elements, attributes, comments int
	for _, m := range doc.AllMarkupItems() {
		switch m.NodeType() {
		case earmark.ElementNode:
			elements++
		case earmark.AttributeNode:
			attributes++
		case earmark.CommentNode:
			comments++
		}
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", doc.ID())
	fmt.Fprintf(w, "Elements:\t%d\n", elements)
	fmt.Fprintf(w, "Attributes:\t%d\n", attributes)
	fmt.Fprintf(w, "Comments:\t%d\n", comments)
	fmt.Fprintf(w, "Ranges:\t%d\n", len(doc.AllRanges()))
	fmt.Fprintf(w, "Roots:\t%d\n", len(doc.Roots()))
	fmt.Fprintf(w, "Assertions:\t%d\n", doc.Assertions().Len())
	for _, dv := range doc.AllDocuverses() {
		source := dv.Source()
		if dv.Kind() == earmark.StringDocuverseType {
			source = fmt.Sprintf("%d characters", len([]rune(source)))
		}
		fmt.Fprintf(w, "Docuverse:\t%s (%s, %s)\n", dv.ID(), dv.Kind(), source)
	}
	return w.Flush()
}

// TextCmd prints text content.
type TextCmd struct {
	Path   string `arg:"" help:"Document file" type:"existingfile"`
	Format string `short:"f" help:"Input format (detected when empty)"`
	Node   string `short:"n" help:"Node id (relative ids resolve against the document id)"`
}

func (c *TextCmd) Run(env *Env) error {
	doc, err := env.load(c.Path, c.Format)
	if err != nil {
		return err
	}
	var text string
	var ok bool
	if c.Node == "" {
		text, ok = doc.TextContent()
	} else {
		it, found := doc.EntityByID(c.Node)
		if !found {
			return errors.NewNotFound("node", c.Node)
		}
		n, isNode := it.(earmark.Node)
		if !isNode {
			return errors.NewValidation("node", c.Node+" is a docuverse, not a node")
		}
		text, ok = n.TextContent()
	}
	if !ok {
		return errors.NewNotFound("text content", c.Path)
	}
	_, err = fmt.Fprintln(env.Out, text)
	return err
}

// ConvertCmd converts between formats.
type ConvertCmd struct {
	Input              string `arg:"" help:"Input document" type:"existingfile"`
	Output             string `arg:"" help:"Output document" type:"path"`
	From               string `help:"Input format (detected when empty)"`
	To                 string `help:"Output format (from the extension, then the configured default)"`
	StandardStatements bool   `help:"Add inferable collection statements to N-Triples output"`
}

func (c *ConvertCmd) Run(env *Env) error {
	doc, err := env.load(c.Input, c.From)
	if err != nil {
		return err
	}
	out := outputPath(c.Output, env.Config.Output.Compress)
	h, err := outputHandler(out, c.To, env.Config.Output.Format)
	if err != nil {
		return err
	}
	if c.StandardStatements {
		if h.Name() != ntriples.Name {
			return errors.NewValidation("standard-statements", "only applies to N-Triples output")
		}
		h = &format.Handler{Manifest: h.Manifest, Writer: ntriples.Writer{StandardStatements: true}}
	}
	if err := format.WriteHandler(env.Ctx, out, h, doc); err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "Converted %s (%s) to %s\n", c.Input, doc.ID(), out)
	return nil
}

// outputPath appends the configured compression suffix unless path
// already carries one.
func outputPath(path, compress string) string {
	if compress == "" || archive.CompressionOf(path) != archive.None {
		return path
	}
	return path + "." + compress
}

func outputHandler(path, name, fallback string) (*format.Handler, error) {
	if name == "" {
		if h := format.ByExtension(path); h != nil {
			return h, nil
		}
		name = fallback
	}
	h := format.Get(name)
	if h == nil {
		return nil, errors.NewNotFound("format", name)
	}
	return h, nil
}

// CreateCmd builds a document over a plain text file: one docuverse and
// a root element holding a range over the whole text.
type CreateCmd struct {
	Input  string `arg:"" help:"Plain text file" type:"existingfile"`
	Output string `arg:"" help:"Output document" type:"path"`
	ID     string `help:"Document id (a fresh urn:uuid when empty)"`
	GI     string `name:"gi" default:"text" help:"General identifier of the root element"`
	To     string `help:"Output format (from the extension, then the configured default)"`
}

func (c *CreateCmd) Run(env *Env) error {
	data, err := archive.ReadFile(c.Input)
	if err != nil {
		return errors.NewIO("read", c.Input, err)
	}
	id := c.ID
	if id == "" {
		id = earmark.NewDocumentID()
	}
	doc := earmark.NewDocument(id)
	dv := doc.CreateStringDocuverse(string(data))
	r, err := doc.CreatePointerRange(dv, earmark.Open, earmark.Open)
	if err != nil {
		return err
	}
	root := doc.CreateElement(c.GI, "", earmark.List)
	if err := root.AppendChild(r); err != nil {
		return err
	}
	if err := doc.AppendChild(root); err != nil {
		return err
	}

	out := outputPath(c.Output, env.Config.Output.Compress)
	h, err := outputHandler(out, c.To, env.Config.Output.Format)
	if err != nil {
		return err
	}
	if err := format.WriteHandler(env.Ctx, out, h, doc); err != nil {
		return err
	}
	logging.InfoContext(logging.WithDocumentID(env.Ctx, id), "document created", "path", out, "characters", utf8.RuneCount(data))
	fmt.Fprintf(env.Out, "Created %s as %s\n", id, out)
	return nil
}

// FormatsCmd lists the registered formats.
type FormatsCmd struct{}

func (c *FormatsCmd) Run(env *Env) error {
	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEXTENSIONS\tMODE\tDESCRIPTION")
	for _, h := range format.List() {
		mode := ""
		if h.CanRead() {
			mode += "r"
		}
		if h.CanWrite() {
			mode += "w"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", h.Name(), strings.Join(h.Manifest.Extensions, " "), mode, h.Manifest.Description)
	}
	return w.Flush()
}

// PatternsCmd classifies elements.
type PatternsCmd struct {
	Path   string `arg:"" help:"Document file" type:"existingfile"`
	Format string `short:"f" help:"Input format (detected when empty)"`
	Out    string `short:"o" help:"Write the document annotated with pattern classes" type:"path"`
}

func (c *PatternsCmd) Run(env *Env) error {
	doc, err := env.load(c.Path, c.Format)
	if err != nil {
		return err
	}
	res := pattern.Classify(doc)

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	for _, k := range res.Keys() {
		fmt.Fprintf(w, "%s\t%s\t%d\n", k, res.Pattern(k), len(res.Members(k)))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if c.Out == "" {
		return nil
	}
	if err := pattern.Annotate(doc, res); err != nil {
		return err
	}
	out := outputPath(c.Out, env.Config.Output.Compress)
	h, err := outputHandler(out, "", env.Config.Output.Format)
	if err != nil {
		return err
	}
	return format.WriteHandler(env.Ctx, out, h, doc)
}

// CheckCmd verifies document consistency.
type CheckCmd struct {
	Paths  []string `arg:"" help:"Document files" type:"existingfile"`
	Format string   `short:"f" help:"Input format (detected when empty)"`
}

func (c *CheckCmd) Run(env *Env) error {
	failed := 0
	for _, path := range c.Paths {
		doc, err := env.load(path, c.Format)
		if err == nil {
			err = doc.Check()
		}
		if err != nil {
			failed++
			logging.WarnContext(env.Ctx, "document check failed", "path", path, "error", err)
			fmt.Fprintf(env.Out, "FAIL %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(env.Out, "ok   %s (%d items)\n", path, doc.Len())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(c.Paths))
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(env *Env) error {
	info := sqlite.GetInfo()
	fmt.Fprintf(env.Out, "earmark version %s\n", version)
	fmt.Fprintf(env.Out, "sqlite driver: %s (%s, %s)\n", info.DriverName, info.DriverType, info.Package)
	return nil
}
