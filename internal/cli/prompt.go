package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"convcompare/internal/spec"
)

// stdin is the operator input; tests replace it.
var stdin io.Reader = os.Stdin

var (
	errGateQuit   = errors.New("operator stopped the run")
	errGateClosed = errors.New("input closed before the operator confirmed")
)

// readLine reads a line from the reader, trimming line endings. A final
// line without a newline is returned together with io.EOF.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), err
}

// promptYesNo prompts for a yes/no response with a default.
func promptYesNo(reader *bufio.Reader, out io.Writer, label string, defaultYes bool) (bool, error) {
	suffix := "y/N"
	if defaultYes {
		suffix = "Y/n"
	}
	for {
		fmt.Fprintf(out, "%s [%s]: ", label, suffix)
		line, err := readLine(reader)
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			if err != nil {
				return false, fmt.Errorf("invalid response %q", line)
			}
			fmt.Fprintln(out, "Please answer yes or no.")
		}
	}
}

// promptGate waits for the operator to press Enter once the server runs
// the next configuration. "q" stops the run.
type promptGate struct {
	reader *bufio.Reader
	out    io.Writer
}

func newPromptGate(in io.Reader, out io.Writer) *promptGate {
	return &promptGate{reader: bufio.NewReader(in), out: out}
}

type promptLine struct {
	text string
	err  error
}

// Wait blocks until Enter, "q", end of input, or ctx cancellation. Input is
// read only while waiting so it never competes with the live UI.
func (g *promptGate) Wait(ctx context.Context, next spec.Configuration) error {
	fmt.Fprintf(g.out, "\n'%s' 설정으로 서버를 재시작한 뒤 Enter를 누르세요 (q: 중단): ", next.Name)
	lines := make(chan promptLine, 1)
	go func() {
		text, err := readLine(g.reader)
		lines <- promptLine{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(g.out)
		return ctx.Err()
	case line := <-lines:
		text := strings.TrimSpace(line.text)
		if strings.EqualFold(text, "q") {
			return errGateQuit
		}
		if line.err != nil && text == "" {
			if errors.Is(line.err, io.EOF) {
				return errGateClosed
			}
			return line.err
		}
		return nil
	}
}
