package gerrit

import "strings"

// projectAliases maps namespaces to the projects they host, so short
// project names resolve without a round trip to the server.
var projectAliases = map[string][]string{
	"openstack-dev": {
		"devstack", "hacking", "grenade", "oslo-cookiecutter",
		"pbr", "bashate", "cookiecutter",
	},
	"stackforge": {
		"gnocchi", "pecan", "murano", "solum", "rally",
	},
}

// FullProject expands a short project name to its namespaced form.
// Names already containing a namespace pass through unchanged; unknown
// short names default to the openstack namespace.
func FullProject(project string) string {
	for namespace, projects := range projectAliases {
		for _, p := range projects {
			if project == p {
				return namespace + "/" + project
			}
		}
	}
	if !strings.Contains(project, "/") {
		return "openstack/" + project
	}
	return project
}

// NormalizeChange reduces a change reference (bare number, Change-Id,
// or review URL with optional patchset suffix) to the identifier the
// query interface accepts.
func NormalizeChange(change string) string {
	change = strings.TrimPrefix(change, "https://review.openstack.org/#/c/")
	change = strings.TrimPrefix(change, "https://review.openstack.org/")
	change, _, _ = strings.Cut(change, "/")
	return change
}
