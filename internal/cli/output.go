package cli

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/semantria/semantria-go/pkg/semantria"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"sigs.k8s.io/yaml"
)

var titleCaser = cases.Title(language.English)

// printYAML writes a title cased heading followed by v rendered as YAML.
func printYAML(w io.Writer, heading string, v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "unable to render output")
	}
	keyLabel.Fprintf(w, "%s:\n", titleCaser.String(heading))
	fmt.Fprint(w, string(out))
	return nil
}

// printResult renders a call result. A 202 result has no value and is
// reported as pending.
func printResult[T any](w io.Writer, heading string, res semantria.Result[T]) error {
	if res.Accepted() {
		if jsonOutput {
			printJSON(w, map[string]any{"status": res.Status, "pending": true})
			return nil
		}
		fmt.Fprintf(w, "No %s available\n", heading)
		return nil
	}
	if jsonOutput {
		printJSON(w, res.Value)
		return nil
	}
	return printYAML(w, heading, res.Value)
}

// printOK prints an [OK] line, or a JSON status object with -j.
func printOK(w io.Writer, status map[string]any, format string, args ...any) {
	if jsonOutput {
		printJSON(w, status)
		return
	}
	okLabel.Fprint(w, "[OK] ")
	fmt.Fprintf(w, format+"\n", args...)
}
