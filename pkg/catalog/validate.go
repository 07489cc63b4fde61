package catalog

import (
	"fmt"
	"strings"

	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
	"github.com/matzehuels/skillgalaxy/pkg/errors"
)

// Validate checks the structural rules a graph cannot be built without:
// every record has an ID, IDs are unique across all record kinds, and
// authored colors are well-formed. The implicit root and default cluster
// ids are claimed when the catalog leaves them unset, and the core cluster
// id is reserved. Dangling references are not checked;
// the builder drops them.
func (c *Catalog) Validate() error {
	var problems []string
	seen := make(map[string]string)

	claim := func(kind, id string) {
		if strings.TrimSpace(id) == "" {
			problems = append(problems, fmt.Sprintf("%s with empty id", kind))
			return
		}
		if err := errors.ValidateNodeID(id); err != nil {
			problems = append(problems, fmt.Sprintf("%s %q: %s", kind, id, errors.UserMessage(err)))
			return
		}
		if prev, dup := seen[id]; dup {
			problems = append(problems, fmt.Sprintf("duplicate id %q (%s and %s)", id, prev, kind))
			return
		}
		seen[id] = kind
	}

	root := c.Root.ID
	if root == "" {
		root = DefaultRootID
	}
	claim("root", root)

	authored := make(map[string]bool, len(c.Clusters))
	for _, cl := range c.Clusters {
		if cl.ID == galaxy.CoreCluster {
			problems = append(problems, fmt.Sprintf("cluster id %q is reserved", cl.ID))
			continue
		}
		claim("cluster", cl.ID)
		authored[cl.ID] = true
		for _, col := range []string{cl.Primary, cl.Secondary} {
			if col == "" {
				continue
			}
			if err := errors.ValidateColor(col); err != nil {
				problems = append(problems, fmt.Sprintf("cluster %q: %s", cl.ID, errors.UserMessage(err)))
			}
		}
	}

	def := c.Mapping.DefaultCluster
	if def == "" {
		def = DefaultClusterID
	}
	switch {
	case def == galaxy.CoreCluster:
		problems = append(problems, fmt.Sprintf("default cluster %q is reserved", def))
	case !authored[def]:
		claim("default cluster", def)
	}

	for _, co := range c.Courses {
		claim("course", co.ID)
	}
	for _, p := range c.Projects {
		claim("project", p.ID)
	}
	for _, t := range c.Topics {
		claim("topic", t.Slug)
	}

	if len(problems) > 0 {
		return errors.New(errors.ErrCodeInvalidCatalog, "%s", strings.Join(problems, "; "))
	}
	return nil
}
