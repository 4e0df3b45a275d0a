package diagfmt

import (
	"fmt"
	"io"
)

// BalancedMessage is printed when no file has findings.
const BalancedMessage = "Braces are balanced."

// FileMessages is what the plain renderer needs from one checked file.
type FileMessages struct {
	Path     string
	Messages []string
	Err      error // ошибка чтения, сообщения тогда пусты
}

// Plain writes the classic output: "Braces are balanced." or one message per
// line in production order. With withPaths every line is prefixed by "path: ".
func Plain(w io.Writer, files []FileMessages, withPaths bool) error {
	printed := false
	for _, f := range files {
		if f.Err != nil {
			if _, err := fmt.Fprintf(w, "%s: %v\n", f.Path, f.Err); err != nil {
				return err
			}
			printed = true
			continue
		}
		for _, msg := range f.Messages {
			var err error
			if withPaths {
				_, err = fmt.Fprintf(w, "%s: %s\n", f.Path, msg)
			} else {
				_, err = fmt.Fprintln(w, msg)
			}
			if err != nil {
				return err
			}
			printed = true
		}
	}
	if !printed {
		_, err := fmt.Fprintln(w, BalancedMessage)
		return err
	}
	return nil
}
