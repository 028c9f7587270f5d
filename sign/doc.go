// Package sign produces detached PGP signatures for release artifacts.
//
// A Signer wraps a decrypted private key and writes armored detached
// signatures next to each artifact, as <artifact>.asc. The signatures
// are the ones "twine upload -s" would expect to accompany an sdist
// or wheel.
package sign
