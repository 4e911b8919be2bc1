package prompt

import (
	"fmt"
	"io"
)

// AwaitKeypress blocks until a single byte is read from the reader. A
// closed reader satisfies the wait, so a redirected stdin never hangs the
// exit.
func AwaitKeypress(writer io.Writer, reader io.Reader) error {
	fmt.Fprint(writer, "Press any key to exit . . . ")
	buffer := make([]byte, 1)
	if _, err := reader.Read(buffer); err != nil && err != io.EOF {
		return err
	}
	fmt.Fprintln(writer)
	return nil
}
