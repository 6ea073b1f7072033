package merkle

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/BackendStack21/knapsack-merkle-go/utils"
)

// ReadRecords reads one record per line. Each line is trimmed of leading and
// trailing control characters and spaces (every rune <= U+0020); blank lines
// are kept as empty records.
func ReadRecords(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), utils.MaxRecordLength)

	var records []string
	for scanner.Scan() {
		records = append(records, trimRecord(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return records, nil
}

func trimRecord(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return r <= ' ' })
}

// RootOfReader reads records from r and returns their root. The boolean is
// false when r holds no lines.
func (b *Builder) RootOfReader(r io.Reader) (string, bool, error) {
	records, err := ReadRecords(r)
	if err != nil {
		return "", false, err
	}
	root, ok := b.BuildRoot(records)
	return root, ok, nil
}
