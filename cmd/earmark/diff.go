package main

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/FocuswithJustin/earmark/core/earmark"
	"github.com/FocuswithJustin/earmark/internal/logging"
)

var (
	insertColor = color.New(color.FgGreen)
	deleteColor = color.New(color.FgRed, color.CrossedOut)
	headerColor = color.New(color.Bold)
)

// errDifferent is returned by diff --exit-code when the documents differ.
var errDifferent = errors.New("documents differ")

// DiffCmd compares two documents.
type DiffCmd struct {
	Left     string `arg:"" help:"First document" type:"existingfile"`
	Right    string `arg:"" help:"Second document" type:"existingfile"`
	From     string `help:"Input format of both documents (detected when empty)"`
	Text     bool   `help:"Show a character diff of the text content" default:"true" negatable:""`
	ExitCode bool   `name:"exit-code" help:"Fail when the documents are not equal"`
}

func (c *DiffCmd) Run(env *Env) error {
	left, err := env.load(c.Left, c.From)
	if err != nil {
		return err
	}
	right, err := env.load(c.Right, c.From)
	if err != nil {
		return err
	}

	equal := earmark.Equal(left, right)
	logging.DebugContext(env.Ctx, "documents compared", "left", left.ID(), "right", right.ID(), "equal", equal)
	headerColor.Fprintln(env.Out, "Equality")
	fmt.Fprintf(env.Out, "  equal:                 %v\n", equal)
	fmt.Fprintf(env.Out, "  structurally equal:    %v\n", earmark.StructurallyEqual(left, right))
	fmt.Fprintf(env.Out, "  same document id:      %v\n", left.ID() == right.ID())

	onlyLeft, onlyRight := splitIDs(left, right)
	if len(onlyLeft)+len(onlyRight) > 0 {
		headerColor.Fprintln(env.Out, "Identifiers")
		for _, id := range onlyLeft {
			deleteColor.Fprintf(env.Out, "  - %s\n", id)
		}
		for _, id := range onlyRight {
			insertColor.Fprintf(env.Out, "  + %s\n", id)
		}
	}

	if c.Text {
		lt, _ := left.TextContent()
		rt, _ := right.TextContent()
		if lt != rt {
			headerColor.Fprintln(env.Out, "Text")
			writeTextDiff(env.Out, lt, rt)
		}
	}

	if c.ExitCode && !equal {
		return errDifferent
	}
	return nil
}

// splitIDs returns the local ids bound in only one of the documents.
func splitIDs(left, right *earmark.Document) (onlyLeft, onlyRight []string) {
	local := func(d *earmark.Document) map[string]bool {
		out := make(map[string]bool)
		for _, id := range d.IDs() {
			if it, ok := d.EntityByID(id); ok {
				out[it.LocalID()] = true
			}
		}
		return out
	}
	l, r := local(left), local(right)
	for id := range l {
		if !r[id] {
			onlyLeft = append(onlyLeft, id)
		}
	}
	for id := range r {
		if !l[id] {
			onlyRight = append(onlyRight, id)
		}
	}
	slices.Sort(onlyLeft)
	slices.Sort(onlyRight)
	return onlyLeft, onlyRight
}

func writeTextDiff(w io.Writer, from, to string) {
	dmp := diffpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(from, to, false))
	fmt.Fprint(w, "  ")
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffInsert:
			insertColor.Fprintf(w, "{+%s+}", d.Text)
		case diffpatch.DiffDelete:
			deleteColor.Fprintf(w, "[-%s-]", d.Text)
		case diffpatch.DiffEqual:
			fmt.Fprint(w, d.Text)
		}
	}
	fmt.Fprintln(w)
}
