// Package apperr defines shared error sentinels for the statuspane application.
// It is a leaf package with no internal imports, so the page, descriptor and
// feedback packages can all use the sentinels without creating import cycles.
package apperr
