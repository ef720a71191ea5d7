package formatter

import (
	"bufio"
	"errors"
	"io"
)

// Stream reads JSON logs from reader and writes them to writer in console
// format. Lines that are not zap JSON entries are copied verbatim.
func Stream(reader io.Reader, writer io.Writer, color bool) error {
	r := bufio.NewReader(reader)

	var prevTimestamp string
	for {
		line, readErr := r.ReadBytes('\n')

		// The last line may lack EOL, in which case both line and
		// io.EOF are returned
		if len(line) > 0 {
			out, ts, err := JSONLogMessage(line, prevTimestamp, color)
			if err != nil {
				if _, err := writer.Write(line); err != nil {
					return err
				}
			} else {
				prevTimestamp = ts
				_, err := writer.Write(out.Bytes())
				out.Free()
				if err != nil {
					return err
				}
			}
		}

		if errors.Is(readErr, io.EOF) {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}
