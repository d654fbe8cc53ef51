// Package verify implements the environment validation suites behind
// `devctl verify`. Each suite runs a set of named checks against the live
// cluster or the forwarded HTTP endpoints and reports per-check results; the
// command layer renders them and exits non-zero when any check failed.
package verify
