// pkg/loaderpatch/binary.go
package loaderpatch

import (
	"fmt"
	"strings"

	"github.com/arc-language/layerslim/pkg/codec"
	"github.com/arc-language/layerslim/pkg/pyast"
)

const (
	jsonLoaderClass = "JSONFileLoader"
	fileLoaderAttr  = "FILE_LOADER_CLASS"
)

const binaryLoaderTemplate = `class {{class}}(object):
    """Reads {{name}} service data written by layerslim."""

    def exists(self, file_path):
        return os.path.isfile(file_path + '{{ext}}')

    def load_file(self, file_path):
        try:
            with open(file_path + '{{ext}}', 'rb') as fp:
                return {{load}}
        except (IsADirectoryError, FileNotFoundError):
            return None
`

// BinaryLoaderSource renders the Python file loader class for c
func BinaryLoaderSource(c codec.Codec) string {
	py := c.Python()
	return strings.NewReplacer(
		"{{class}}", py.LoaderClass,
		"{{name}}", c.Name(),
		"{{ext}}", c.Ext(),
		"{{load}}", py.Load,
	).Replace(binaryLoaderTemplate)
}

// ApplyBinaryLoad makes the loader read codec-encoded files: the codec
// import is added, a file loader class for it is declared immediately
// before JSONFileLoader, and Loader.FILE_LOADER_CLASS is rebound to it.
func ApplyBinaryLoad(mod *pyast.Module, c codec.Codec) error {
	py := c.Python()

	// resolve every anchor before touching the tree
	if _, _, err := FindClass(mod, jsonLoaderClass); err != nil {
		return err
	}
	_, loader, err := FindClass(mod, loaderClass)
	if err != nil {
		return err
	}
	attrIdx, attr, err := FindAssignment(loader, fileLoaderAttr)
	if err != nil {
		return err
	}

	if err := addImport(mod, py.Import); err != nil {
		return fmt.Errorf("adding %s import: %w", c.Name(), err)
	}

	class, err := pyast.ParseSnippet(BinaryLoaderSource(c), "")
	if err != nil {
		return fmt.Errorf("parsing %s: %w", py.LoaderClass, err)
	}
	jsonIdx, _, _ := FindClass(mod, jsonLoaderClass)
	mod.InsertAbove(jsonIdx, "\n\n", class...)

	rebind, err := pyast.ParseSnippet(fmt.Sprintf("%s = %s\n", fileLoaderAttr, py.LoaderClass), attr.Indent)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", fileLoaderAttr, err)
	}
	if !strings.HasSuffix(attr.Head, "\n") {
		rebind[0].Head = strings.TrimSuffix(rebind[0].Head, "\n")
	}
	pyast.Replace(loader.Body, attrIdx, rebind[0])
	return nil
}
