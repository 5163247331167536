// pkg/loaderpatch/caching.go
package loaderpatch

import (
	"fmt"

	"github.com/arc-language/layerslim/pkg/pyast"
)

const (
	loaderClass      = "Loader"
	listServicesName = "list_available_services"
	scanFuncName     = "services_by_path"
	scanCacheSize    = 20

	cachingImport = "from functools import lru_cache"

	listServicesReturn = `return sorted({
    k for (k, path)
    in services_by_path(tuple(self._potential_locations()), type_name)
    if self.file_loader.exists(path)
})
`
)

var scanFunc = fmt.Sprintf(`

@lru_cache(%d)
def %s(locations, type_name):
    services = set()
    for possible_path in locations:
        possible_services = (
            d for d in os.listdir(possible_path)
            if os.path.isdir(os.path.join(possible_path, d))
        )
        for service_name in possible_services:
            full_dirname = os.path.join(possible_path, service_name)
            for api_version in os.listdir(full_dirname):
                full_load_path = os.path.join(full_dirname, api_version, type_name)
                services.add((service_name, full_load_path))
    return frozenset(services)
`, scanCacheSize, scanFuncName)

// ApplyCaching rewrites Loader.list_available_services to filter the
// result of a module-level scan memoized on (locations, type_name), so
// repeated service listings within one process walk the data tree once.
func ApplyCaching(mod *pyast.Module) error {
	_, loader, err := FindClass(mod, loaderClass)
	if err != nil {
		return err
	}
	_, method, err := FindMethod(loader, listServicesName)
	if err != nil {
		return err
	}
	if len(method.Body) == 0 {
		return &AnchorError{Kind: "body", Name: listServicesName, In: "class " + loaderClass}
	}

	if err := addImport(mod, cachingImport); err != nil {
		return fmt.Errorf("adding lru_cache import: %w", err)
	}

	ret, err := pyast.ParseSnippet(listServicesReturn, method.Body[0].Indent)
	if err != nil {
		return fmt.Errorf("parsing service listing: %w", err)
	}
	method.Truncate(1)
	method.Append(ret...)

	scan, err := pyast.ParseSnippet(scanFunc, "")
	if err != nil {
		return fmt.Errorf("parsing %s: %w", scanFuncName, err)
	}
	mod.Append(scan...)
	return nil
}
