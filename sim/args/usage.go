package args

import (
	"fmt"
	"io"
	"strings"
)

// Usage writes the declarations grouped by category. Required options are
// marked {R}.
func (d *Declarations) Usage(w io.Writer) error {
	var b strings.Builder
	for _, c := range Categories {
		var group []Declaration
		for _, decl := range d.All() {
			if decl.Key.Category == c {
				group = append(group, decl)
			}
		}
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s parameter(s):\n", c.Title())
		for _, decl := range group {
			mark := ""
			if decl.Required {
				mark = " {R}"
			}
			fmt.Fprintf(&b, "  %s <%s>%s\n", decl.Key, decl.Type.Title(), mark)
			if decl.Doc != "" {
				fmt.Fprintf(&b, "      %s\n", decl.Doc)
			}
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
