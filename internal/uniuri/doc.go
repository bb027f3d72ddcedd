// Package uniuri generates random identifiers from crypto/rand, used for the
// browser session ids.
package uniuri
