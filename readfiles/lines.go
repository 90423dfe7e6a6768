package readfiles

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/DataDog/zstd"
)

// CompressedSuffix marks reafiles stored zstd compressed.
const CompressedSuffix = ".zst"

const maxLineLength = 1 << 20

// ReadLines splits r into lines, dropping the line terminators (LF or CRLF).
func ReadLines(r io.Reader) (lines []string, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	return
}

// ReadLinesFile reads a whole file into lines, decompressing .zst files.
func ReadLinesFile(path string) (lines []string, err error) {
	var file *os.File
	if file, err = os.Open(path); err != nil {
		return nil, resourceError("read", path, err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, CompressedSuffix) {
		zr := zstd.NewReader(file)
		defer zr.Close()
		r = zr
	}
	if lines, err = ReadLines(r); err != nil {
		return nil, resourceError("read", path, err)
	}
	return
}

func resourceError(op, path string, err error) error {
	return &ReaError{Op: op, Kind: KindResource, Path: path, Err: err}
}
