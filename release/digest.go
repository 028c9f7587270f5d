package release

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Digests holds the operator-facing checksums of an artifact. They are
// printed for manual verification only, never enforced by the tool.
type Digests struct {
	SHA1 string
	MD5  string
}

// FileDigests computes the SHA-1 and MD5 digests of a file in one pass.
func FileDigests(path string) (Digests, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digests{}, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	sha := sha1.New()
	md := md5.New()
	if _, err := io.Copy(io.MultiWriter(sha, md), f); err != nil {
		return Digests{}, fmt.Errorf("hash artifact: %w", err)
	}

	return Digests{
		SHA1: hex.EncodeToString(sha.Sum(nil)),
		MD5:  hex.EncodeToString(md.Sum(nil)),
	}, nil
}
