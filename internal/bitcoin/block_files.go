package bitcoin

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
	"go.uber.org/zap"
)

const xorKeyFile = "xor.dat"

// BlockFiles reads the blk*.dat files of a node data directory.
type BlockFiles struct {
	dir    string
	conv   *Converter
	logger *zap.Logger
}

// NewBlockFiles reads block files from dir, for example ~/.bitcoin/blocks.
func NewBlockFiles(dir string, conv *Converter, logger *zap.Logger) *BlockFiles {
	return &BlockFiles{dir: dir, conv: conv, logger: logger.Named("block_files")}
}

// Open starts reading from the first block file.
func (f *BlockFiles) Open(ctx context.Context) (*BlockFileReader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, err := filepath.Glob(filepath.Join(f.dir, "blk[0-9][0-9][0-9][0-9][0-9].dat"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no block files in %s", f.dir)
	}
	sort.Strings(files)

	key, err := readXORKey(filepath.Join(f.dir, xorKeyFile))
	if err != nil {
		return nil, err
	}
	f.logger.Info("opened block files", zap.String("dir", f.dir), zap.Int("files", len(files)), zap.Bool("obfuscated", key != nil))
	return &BlockFileReader{
		files:  files,
		key:    key,
		magic:  uint32(f.conv.Params().Net),
		conv:   f.conv,
		logger: f.logger,
	}, nil
}

// readXORKey loads the obfuscation key newer nodes apply to block files. A missing or zero key means none.
func readXORKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(key) == 0 || bytes.Count(key, []byte{0}) == len(key) {
		return nil, nil
	}
	return key, nil
}

// BlockFileReader yields blocks in file storage order, which is not height order.
type BlockFileReader struct {
	files  []string
	next   int
	cur    *os.File
	r      *bufio.Reader
	offset int
	key    []byte
	magic  uint32
	conv   *Converter
	logger *zap.Logger
}

func (r *BlockFileReader) read(p []byte) error {
	n, err := io.ReadFull(r.r, p)
	if r.key != nil {
		for i := 0; i < n; i++ {
			p[i] ^= r.key[(r.offset+i)%len(r.key)]
		}
	}
	r.offset += n
	return err
}

func (r *BlockFileReader) closeCurrent() {
	if r.cur == nil {
		return
	}
	if err := r.cur.Close(); err != nil {
		r.logger.Warn("close block file", zap.String("file", r.cur.Name()), zap.Error(err))
	}
	r.cur, r.r = nil, nil
}

// NextBlock returns the next stored block, or io.EOF after the last file.
func (r *BlockFileReader) NextBlock(ctx context.Context) (*model.Block, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r.cur == nil {
			if r.next >= len(r.files) {
				return nil, io.EOF
			}
			file, err := os.Open(r.files[r.next])
			if err != nil {
				return nil, fmt.Errorf("open block file: %w", err)
			}
			r.next++
			r.cur, r.r, r.offset = file, bufio.NewReaderSize(file, 1<<20), 0
		}

		var hdr [8]byte
		if err := r.read(hdr[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				r.closeCurrent()
				continue
			}
			return nil, fmt.Errorf("read %s: %w", r.cur.Name(), err)
		}
		magic := binary.LittleEndian.Uint32(hdr[:4])
		if magic == 0 {
			// preallocated tail of the file
			r.closeCurrent()
			continue
		}
		if magic != r.magic {
			return nil, fmt.Errorf("%s offset %d: unexpected magic %08x", r.cur.Name(), r.offset-8, magic)
		}
		size := binary.LittleEndian.Uint32(hdr[4:])
		if size > wire.MaxBlockPayload {
			return nil, fmt.Errorf("%s offset %d: block size %d exceeds limit", r.cur.Name(), r.offset-8, size)
		}
		buf := make([]byte, size)
		if err := r.read(buf); err != nil {
			r.logger.Warn("truncated block at end of file", zap.String("file", r.cur.Name()), zap.Error(err))
			r.closeCurrent()
			continue
		}

		var msg wire.MsgBlock
		if err := msg.Deserialize(bytes.NewReader(buf)); err != nil {
			return nil, fmt.Errorf("decode block in %s: %w", r.cur.Name(), err)
		}
		return r.conv.WireBlock(&msg)
	}
}

// Close releases the open file.
func (r *BlockFileReader) Close() error {
	if r.cur == nil {
		return nil
	}
	err := r.cur.Close()
	r.cur, r.r = nil, nil
	return err
}
