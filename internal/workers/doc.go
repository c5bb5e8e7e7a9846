// Package workers provides helpers for sizing worker pools in
// containerized environments.
//
// Go 1.19+ sets GOMAXPROCS from container CPU limits, while
// runtime.NumCPU() still reports the host's CPU count. The helpers here
// derive worker counts from GOMAXPROCS so the thumbnail pipeline respects
// cgroup limits, with a PIPELINE_WORKERS environment variable override
// for operators.
package workers
