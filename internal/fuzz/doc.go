// Package fuzztests houses Go fuzz harnesses that exercise the dictionary
// parse pipeline (source -> lines -> outline -> document). Its goal is to
// smoke test robustness and guard against panics or hangs on arbitrary
// inputs; every diagnostic path is fair game, no input may crash.
package fuzztests
