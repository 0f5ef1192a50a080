// Package csvimport implements a headless CSV import engine: parse raw
// CSV text into a row matrix, map source headers onto a target schema,
// apply that mapping, and validate the result against locale-aware types
// and per-column rules. The engine is synchronous and single-threaded;
// see the transport subpackage for running it off a host's own thread.
package csvimport
