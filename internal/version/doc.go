// Package version holds build metadata for the statuspane binary. Values
// come from -ldflags; when those are unset (go install), debug.BuildInfo
// supplies the module version and VCS revision instead.
package version
