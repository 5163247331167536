// pkg/loaderpatch/anchors.go
package loaderpatch

import (
	"github.com/arc-language/layerslim/pkg/pyast"
)

// FindClass locates a top-level class definition
func FindClass(mod *pyast.Module, name string) (int, *pyast.Stmt, error) {
	i, s := pyast.Find(mod.Body, pyast.Class, name)
	if s == nil {
		return -1, nil, &AnchorError{Kind: "class", Name: name, In: "module"}
	}
	return i, s, nil
}

// FindMethod locates a method defined directly in a class body
func FindMethod(class *pyast.Stmt, name string) (int, *pyast.Stmt, error) {
	i, s := pyast.Find(class.Body, pyast.Function, name)
	if s == nil {
		return -1, nil, &AnchorError{Kind: "method", Name: name, In: "class " + class.Name}
	}
	return i, s, nil
}

// FindAssignment locates a class attribute binding
func FindAssignment(class *pyast.Stmt, name string) (int, *pyast.Stmt, error) {
	i, s := pyast.Find(class.Body, pyast.Assign, name)
	if s == nil {
		return -1, nil, &AnchorError{Kind: "assignment", Name: name, In: "class " + class.Name}
	}
	return i, s, nil
}

// FirstImport returns the index of the module's first import statement
func FirstImport(mod *pyast.Module) (int, error) {
	i, s := pyast.FindKind(mod.Body, pyast.Import)
	if s == nil {
		return -1, &AnchorError{Kind: "import", In: "module"}
	}
	return i, nil
}

// addImport places stmt ahead of the first import
func addImport(mod *pyast.Module, stmt string) error {
	idx, err := FirstImport(mod)
	if err != nil {
		return err
	}
	stmts, err := pyast.ParseSnippet(stmt+"\n", "")
	if err != nil {
		return err
	}
	mod.InsertBefore(idx, "", stmts...)
	return nil
}
