package store

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/arturoeanton/go-word2vec-similarity/internal/port"
)

const readBufferSize = 1 << 20

// LoadOptions controls how a word2vec file is parsed.
type LoadOptions struct {
	Binary bool // binary body (true) or one "word f1 f2 ..." line per entry
	Limit  int  // read at most Limit entries; 0 reads all
}

// Load reads a word2vec model from path. Gzip-compressed files are detected
// automatically. A missing file yields an error matching fs.ErrNotExist.
func Load(path string, opts LoadOptions) (*KeyedVectors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	kv, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return kv, nil
}

// Read parses a word2vec stream in the format written by the reference C tool.
func Read(r io.Reader, opts LoadOptions) (*KeyedVectors, error) {
	br := bufio.NewReaderSize(r, readBufferSize)

	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		defer zr.Close()
		br = bufio.NewReaderSize(zr, readBufferSize)
	}

	count, dim, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	if opts.Limit > 0 && opts.Limit < count {
		count = opts.Limit
	}

	kv := newKeyedVectors(dim, count)
	vec := make([]float32, dim)
	raw := make([]byte, 4*dim)

	for i := 0; i < count; i++ {
		var word string
		if opts.Binary {
			word, err = readBinaryEntry(br, vec, raw)
		} else {
			word, err = readTextEntry(br, vec)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", port.ErrInvalidModel, i, err)
		}
		if !finite(vec) {
			return nil, fmt.Errorf("%w: entry %d: %q has a non-finite value", port.ErrInvalidModel, i, word)
		}
		if !kv.add(word, vec) {
			slog.Warn("duplicate word in word2vec file, keeping first", "word", word, "entry", i)
		}
	}

	if kv.Len() == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", port.ErrInvalidModel)
	}
	return kv, nil
}

func readHeader(br *bufio.Reader) (count, dim int, err error) {
	line, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return 0, 0, fmt.Errorf("%w: read header: %v", port.ErrInvalidModel, err)
	}

	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: header %q", port.ErrInvalidModel, strings.TrimSpace(line))
	}
	if count, err = strconv.Atoi(fields[0]); err != nil || count <= 0 {
		return 0, 0, fmt.Errorf("%w: vocabulary size %q", port.ErrInvalidModel, fields[0])
	}
	if dim, err = strconv.Atoi(fields[1]); err != nil || dim <= 0 {
		return 0, 0, fmt.Errorf("%w: vector size %q", port.ErrInvalidModel, fields[1])
	}
	return count, dim, nil
}

// readBinaryEntry reads "<word> <dim little-endian float32>" with an optional
// newline before the word.
func readBinaryEntry(br *bufio.Reader, vec []float32, raw []byte) (string, error) {
	token, err := br.ReadBytes(' ')
	if err != nil {
		return "", fmt.Errorf("read word: %w", err)
	}
	token = bytes.TrimLeft(token[:len(token)-1], "\n")
	if len(token) == 0 {
		return "", fmt.Errorf("empty word")
	}

	if _, err := io.ReadFull(br, raw); err != nil {
		return "", fmt.Errorf("read vector for %q: %w", token, err)
	}
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return string(token), nil
}

func readTextEntry(br *bufio.Reader, vec []float32) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read line: %w", err)
	}

	fields := strings.Fields(line)
	if len(fields) != len(vec)+1 {
		return "", fmt.Errorf("line has %d values, want %d", len(fields)-1, len(vec))
	}
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return "", fmt.Errorf("parse %q: %w", f, err)
		}
		vec[i] = float32(v)
	}
	return fields[0], nil
}
