// Diagnostic tool for inspecting run files
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/robert-malhotra/go-readmars/backend"
	_ "github.com/robert-malhotra/go-readmars/backend/yamlstore"
	"github.com/robert-malhotra/go-readmars/mars"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/diagnose/main.go <file> [backend]")
		os.Exit(1)
	}

	filename := os.Args[1]
	driver := "yaml"
	if len(os.Args) > 2 {
		driver = os.Args[2]
	}
	fmt.Printf("=== Analyzing %s ===\n\n", filename)

	b, err := mars.Setup(driver)
	if err != nil {
		fmt.Printf("ERROR: %v (registered: %v)\n", err, backend.Drivers())
		os.Exit(1)
	}
	f, err := b.Open(filename)
	if err != nil {
		fmt.Printf("ERROR: Failed to open file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	fmt.Printf("Backend: %s\n", b.Name())
	fmt.Println()

	for _, tree := range f.Trees() {
		dumpTree(f, tree)
	}
	dumpStatus(f)
}

func dumpTree(f *mars.File, tree string) {
	leaves, err := f.Leaves(mars.WithTree(tree))
	if err != nil {
		fmt.Printf("Tree %q: ERROR listing leaves: %v\n", tree, err)
		return
	}
	fmt.Printf("Tree %q:\n", tree)
	fmt.Printf("  Leaves: %d\n", len(leaves))

	for _, l := range leaves {
		col, err := f.ExtractLeaf(l)
		if err != nil {
			fmt.Printf("  Leaf %q (%s): NOT EXTRACTABLE: %v\n", l.Name, l.TypeName, err)
			continue
		}
		fmt.Printf("  Leaf %q:\n", l.Name)
		fmt.Printf("    Type: %s -> %s\n", l.TypeName, col.Type)
		fmt.Printf("    Shape: %v\n", col.Shape)
	}
	fmt.Println()
}

func dumpStatus(f *mars.File) {
	status, err := f.StatusDisplay()
	if errors.Is(err, mars.ErrNotFound) {
		fmt.Println("No status display")
		return
	}
	if err != nil {
		fmt.Printf("ERROR reading status display: %v\n", err)
		return
	}

	fmt.Printf("Status display %q (%s):\n", status.Name(), status.ClassName())
	err = mars.Walk(status, func(path []string, obj backend.Object, kind mars.Kind) error {
		indent := strings.Repeat("  ", len(path))
		switch kind {
		case mars.KindCanvas, mars.KindPad:
			fmt.Printf("%s%s %q:\n", indent, obj.ClassName(), obj.Name())
		default:
			fmt.Printf("%s%q (%s, %s)\n", indent, obj.Name(), obj.ClassName(), kind)
		}
		if h, ok := obj.(backend.Histogram); ok {
			fmt.Printf("%s  Bins: %d\n", indent, h.NbinsX())
		}
		return nil
	})
	if err != nil {
		fmt.Printf("ERROR walking status display: %v\n", err)
	}

	idx, err := f.StatusIndex()
	if err != nil {
		fmt.Printf("ERROR indexing status display: %v\n", err)
		return
	}
	fmt.Printf("\nIndexed objects: %d\n", idx.Len())
	for _, key := range idx.Keys() {
		e, _ := idx.Get(key)
		fmt.Printf("  %s -> %s\n", key, mars.JoinPath(e.Path()...))
	}
}
