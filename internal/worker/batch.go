package worker

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadInputsFromFile reads batch inputs from a file (one per line)
func ReadInputsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadInputs(file)
}

// ReadInputs reads one input per line, skipping blank lines and # comments.
// Repeated lines are kept; each one is a separate analysis.
func ReadInputs(r io.Reader) ([]string, error) {
	var inputs []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan inputs: %w", err)
	}

	return inputs, nil
}
