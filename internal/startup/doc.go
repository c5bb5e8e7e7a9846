// Package startup handles application initialization including
// configuration loading, directory validation, and structured startup
// and shutdown logging.
package startup
