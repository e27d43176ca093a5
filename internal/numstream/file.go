package numstream

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/lox/archerysim/internal/fileutil"
)

// LoadFile reads a pre-recorded stream: whitespace-separated floats in [0,1].
// The whole file is loaded up front.
func LoadFile(path string) (*Slice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open numbers file: %w", err)
	}
	defer f.Close()

	var values []float64
	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		v, err := strconv.ParseFloat(scanner.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("numbers file %s, value %d: %w", path, len(values)+1, err)
		}
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("numbers file %s, value %d: %v outside [0,1]", path, len(values)+1, v)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read numbers file: %w", err)
	}
	return NewSlice(values), nil
}

// WriteFile records values one per line so LoadFile can replay them.
func WriteFile(path string, values []float64) error {
	var buf bytes.Buffer
	buf.Grow(len(values) * 20)
	for _, v := range values {
		buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		buf.WriteByte('\n')
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}
