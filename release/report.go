package release

import (
	"fmt"
	"path/filepath"
	"strings"
)

// report prints the release announcement, digest sections, and the two
// follow-up commands the operator must run by hand.
func (p *Publisher) report(rel *Release) {
	fmt.Fprintf(p.cfg.Out, "Release version %s (%s)\n", rel.Version, rel.Commit)

	fmt.Fprintln(p.cfg.Out, "SHA1sum:")
	for _, a := range rel.Artifacts {
		fmt.Fprintf(p.cfg.Out, "  %s  %s\n", a.Digests.SHA1, a.Name)
	}

	fmt.Fprintln(p.cfg.Out, "MD5sum:")
	for _, a := range rel.Artifacts {
		fmt.Fprintf(p.cfg.Out, "  %s  %s\n", a.Digests.MD5, a.Name)
	}

	paths := make([]string, 0, len(rel.Artifacts))
	for _, a := range rel.Artifacts {
		paths = append(paths, filepath.Join(p.cfg.DistDir, a.Name))
	}

	fmt.Fprintln(p.cfg.Out, "Now run:")
	fmt.Fprintf(p.cfg.Out, "  git push --tags %s\n", p.cfg.PushRemote)
	fmt.Fprintf(p.cfg.Out, "  twine upload -s %s\n", strings.Join(paths, " "))
}
