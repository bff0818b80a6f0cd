package dedupe

import (
	"encoding/hex"
	"io"
	"os"
	"syscall"

	"github.com/cespare/xxhash/v2"
)

// DefaultChunkSize balances syscall overhead against memory per open file.
const DefaultChunkSize = 32 * 1024

// prefixSize is how much of a file the fast triage inspects.
const prefixSize = 4 * 1024

// fileStats carries the identity fields read off an open descriptor.
type fileStats struct {
	size   int64
	device uint64
	inode  uint64
}

// digestReader hashes r in chunks no larger than len(buf). The read size cap
// holds for any reader, which keeps peak memory at one chunk and makes the
// bound checkable with a recording reader in tests.
func digestReader(h io.Writer, r io.Reader, buf []byte) (int64, error) {
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			total += int64(n)
			if _, werr := h.Write(buf[:n]); werr != nil {
				return total, werr
			}
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// digestFile streams the file at path through algo's hash using buf-sized
// chunks and returns the hex digest plus descriptor stats.
func digestFile(path string, algo Algorithm, buf []byte) (string, fileStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fileStats{}, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fileStats{}, err
	}
	stats := fileStats{size: info.Size()}
	if sys, ok := info.Sys().(*syscall.Stat_t); ok {
		stats.device = uint64(sys.Dev)
		stats.inode = uint64(sys.Ino)
	}

	h := algo.newHash()
	if _, err := digestReader(h, file, buf); err != nil {
		return "", stats, err
	}
	return hex.EncodeToString(h.Sum(nil)), stats, nil
}

// prefixHash hashes the first prefixSize bytes of the file at path with
// xxhash. Short files hash whatever is there; the result only ever rules
// candidates out, never confirms a duplicate.
func prefixHash(path string) (uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	h := xxhash.New()
	buf := make([]byte, prefixSize)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, err
	}
	_, _ = h.Write(buf[:n])
	return h.Sum64(), nil
}
