// pkg/prune/constants.go
package prune

const (
	// CacheDirName is the bytecode cache directory left by the installer
	CacheDirName = "__pycache__"

	// CompiledSuffix marks compiled bytecode files
	CompiledSuffix = ".pyc"

	// StaleExampleSuffix marks the example payload files the runtime never reads
	StaleExampleSuffix = "examples-1.json"
)
