// Package release builds and publishes zuup distribution artifacts.
//
// The Publisher runs a strictly sequential pipeline: verify the tree is
// clean, check out the integration branch, create a signed tag, check
// the tag out, scrub the tree and stale build output, run the
// verification suite, build the source and wheel distributions, then
// report SHA-1/MD5 digests and the manual follow-up commands. Any step
// failure aborts the remainder; nothing is rolled back.
package release
