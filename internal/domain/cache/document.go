// Package cache holds the two cache documents a build produces and the
// read-only Snapshot consumers query.  Documents are JSON objects whose keys
// keep the order entries were produced in, so unchanged inputs give
// byte-identical files.
package cache

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/turtacn/gem-thermo/internal/domain/compound"
	"github.com/turtacn/gem-thermo/internal/domain/thermo"
	"github.com/turtacn/gem-thermo/pkg/errors"
	"github.com/turtacn/gem-thermo/pkg/types/common"
)

// CompoundTable maps cache keys to compound entries.
type CompoundTable = common.OrderedMap[*compound.Entry]

// ReactionTable maps reaction ids to reaction entries.
type ReactionTable = common.OrderedMap[*thermo.Entry]

// Encode renders v as two-space indented JSON with a trailing newline.
func Encode(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode cache document")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "indent cache document")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteFile writes data to path through a temporary file in the same
// directory so readers never observe a partial document.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheWriteFailed, "create output directory").WithDetail(dir)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheWriteFailed, "create temporary file").WithDetail(path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, errors.ErrCodeCacheWriteFailed, "write cache document").WithDetail(path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheWriteFailed, "close cache document").WithDetail(path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheWriteFailed, "chmod cache document").WithDetail(path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheWriteFailed, "rename cache document").WithDetail(path)
	}
	return nil
}

// DecodeCompounds reads a compound cache document.
func DecodeCompounds(r io.Reader) (CompoundTable, error) {
	var t CompoundTable
	if err := decode(r, &t); err != nil {
		return CompoundTable{}, err
	}
	return t, nil
}

// DecodeReactions reads a reaction cache document.
func DecodeReactions(r io.Reader) (ReactionTable, error) {
	var t ReactionTable
	if err := decode(r, &t); err != nil {
		return ReactionTable{}, err
	}
	return t, nil
}

func decode(r io.Reader, v interface{}) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheReadFailed, "read cache document")
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheDocumentFormat, "decode cache document")
	}
	return nil
}

// ReadCompoundsFile reads the compound cache at path.  ok is false when the
// file does not exist.
func ReadCompoundsFile(path string) (t CompoundTable, ok bool, err error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return CompoundTable{}, false, nil
	}
	if err != nil {
		return CompoundTable{}, false, errors.Wrap(err, errors.ErrCodeCacheReadFailed, "open compound cache").WithDetail(path)
	}
	defer f.Close()
	t, err = DecodeCompounds(f)
	if err != nil {
		return CompoundTable{}, false, errors.Wrap(err, errors.CodeUnknown, "compound cache").WithDetail(path)
	}
	return t, true, nil
}

// ReadReactionsFile reads the reaction cache at path.  ok is false when the
// file does not exist.
func ReadReactionsFile(path string) (t ReactionTable, ok bool, err error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return ReactionTable{}, false, nil
	}
	if err != nil {
		return ReactionTable{}, false, errors.Wrap(err, errors.ErrCodeCacheReadFailed, "open reaction cache").WithDetail(path)
	}
	defer f.Close()
	t, err = DecodeReactions(f)
	if err != nil {
		return ReactionTable{}, false, errors.Wrap(err, errors.CodeUnknown, "reaction cache").WithDetail(path)
	}
	return t, true, nil
}

//Personal.AI order the ending
