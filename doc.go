// Package eye provides rule-driven machine-vision inspection machinery.
//
// The engine is in package 'core', the matcher contracts are in 'match',
// the asynchronous detector is in 'detect', and a runtime daemon lives in
// `cmd/eyed`.
package eye
