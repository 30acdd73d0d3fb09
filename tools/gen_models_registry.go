// Command gen_models_registry regenerates models_registry.go from the
// entity structs declared in a models package. A struct counts as an entity
// when it embeds Audit.
package main

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

const registryFile = "models_registry.go"

func main() {
	// Load .env if available
	_ = godotenv.Load()

	var modelsDir string
	if len(os.Args) >= 2 {
		modelsDir = os.Args[1]
	} else {
		modelsDir = os.Getenv("TENANT_MGMT_MODELS_PATH")
		if modelsDir == "" {
			fmt.Println("Usage: go run gen_models_registry.go <models_dir> OR set TENANT_MGMT_MODELS_PATH environment variable")
			os.Exit(1)
		}
	}
	outputFile := filepath.Join(modelsDir, registryFile)

	src, names, err := generate(modelsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := os.WriteFile(outputFile, src, 0644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s with %d models.\n", outputFile, len(names))
}

// generate returns the formatted registry source and the entity names it lists.
func generate(modelsDir string) ([]byte, []string, error) {
	names, pkg, err := entityStructs(modelsDir)
	if err != nil {
		return nil, nil, err
	}

	var b strings.Builder
	b.WriteString("// Code generated by gen_models_registry.go; DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	b.WriteString("// ModelTypeRegistry lists every persisted model by name\n")
	b.WriteString("var ModelTypeRegistry = map[string]interface{}{\n")
	for _, name := range names {
		fmt.Fprintf(&b, "\t%q: %s{},\n", name, name)
	}
	b.WriteString("}\n")

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to format registry: %w", err)
	}
	return src, names, nil
}

func entityStructs(modelsDir string) ([]string, string, error) {
	files, err := os.ReadDir(modelsDir)
	if err != nil {
		return nil, "", err
	}

	var names []string
	pkg := ""
	fset := token.NewFileSet()
	for _, file := range files {
		name := file.Name()
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == registryFile {
			continue
		}
		node, err := parser.ParseFile(fset, filepath.Join(modelsDir, name), nil, 0)
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse %s: %w", name, err)
		}
		pkg = node.Name.Name

		for _, decl := range node.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				st, ok := typeSpec.Type.(*ast.StructType)
				if ok && embedsAudit(st) {
					names = append(names, typeSpec.Name.Name)
				}
			}
		}
	}
	if pkg == "" {
		return nil, "", fmt.Errorf("no Go files in %s", modelsDir)
	}

	sort.Strings(names)
	return names, pkg, nil
}

func embedsAudit(st *ast.StructType) bool {
	for _, field := range st.Fields.List {
		if len(field.Names) != 0 {
			continue
		}
		if ident, ok := field.Type.(*ast.Ident); ok && ident.Name == "Audit" {
			return true
		}
	}
	return false
}
