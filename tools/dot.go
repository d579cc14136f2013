package tools

// dot -Tpng ritual.dot > ritual.png

import (
	"fmt"
	"io"
	"strings"

	"github.com/Silemae70/TheEyeOfCthulhu-sub000/core"

	"gopkg.in/yaml.v2"
)

// Dot writes a Graphviz rendering of the Ritual's pipeline.
//
// Runes form a chain in execution order; each node label carries the
// rune's YAML-ized craft configuration so a reviewer can see regions
// and thresholds at a glance.
func Dot(rt *core.Ritual, w io.Writer) error {
	fmt.Fprintf(w, "digraph G {\n")
	fmt.Fprintf(w, `  graph [rankdir=LR,nodesep=0.3,ranksep=0.6]
  node [shape="record" style="rounded,filled"]
  edge [fontsize="12"]
`)

	fmt.Fprintf(w, "  \"%s\" [fillcolor=\"#2d93ad\"]\n", rt.Name)

	prev := rt.Name
	for _, r := range rt.Runes() {
		label := r.Name
		if cfg := yamlLabel(r.Craft); cfg != "" {
			label += "\\n" + cfg
		}
		fillcolor := "#99ddc8"
		if r.Disabled {
			fillcolor = "#cccccc"
		}
		fmt.Fprintf(w, "  \"%s\" [label=\"%s\" fillcolor=\"%s\"]\n", r.Name, label, fillcolor)
		fmt.Fprintf(w, "  \"%s\" -> \"%s\" [label=\"%.2f\"]\n", prev, r.Name, r.MinResonance)
		prev = r.Name
	}

	fmt.Fprintf(w, "}\n")
	return nil
}

func yamlLabel(x interface{}) string {
	if x == nil {
		return ""
	}
	bs, err := yaml.Marshal(x)
	if err != nil {
		return ""
	}
	s := strings.TrimSpace(string(bs))
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.ReplaceAll(s, "\n", "\\n")
}
