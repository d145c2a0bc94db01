package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"rxc/internal/buildpipeline"
	"rxc/internal/diag"
	"rxc/internal/source"
	"rxc/internal/version"
)

// Bump when DiskPayload changes shape.
const diskCacheSchemaVersion uint16 = 1

// CacheKey identifies a file's content together with every option that can
// change its diagnostics.
type CacheKey [32]byte

func (k CacheKey) String() string { return hex.EncodeToString(k[:]) }

// KeyFor derives the cache key of file under opts. Timings and observers do
// not affect diagnostics and are left out.
func KeyFor(file *source.File, opts DiagnoseOptions) CacheKey {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[:2], diskCacheSchemaVersion)
	h.Write(buf[:2])
	h.Write([]byte(version.Version))
	h.Write([]byte{0})
	h.Write([]byte(opts.stage()))
	h.Write([]byte{0, boolByte(opts.ThrowOnError), opts.PointerWidth})
	binary.LittleEndian.PutUint64(buf[:], uint64(max(opts.MaxDiagnostics, 0)))
	h.Write(buf[:])
	h.Write(file.Hash[:])
	var key CacheKey
	copy(key[:], h.Sum(nil))
	return key
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// DiskCache stores per-file diagnostics under a content key. Safe for
// concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached outcome of one file. Spans are stored as byte
// offsets; the file is re-attached on load.
type DiskPayload struct {
	Schema      uint16
	Path        string
	StoppedAt   string
	Aborted     bool
	Diagnostics []CachedDiagnostic
}

type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Span     CachedSpan
	Notes    []CachedNote
}

type CachedNote struct {
	Span CachedSpan
	Msg  string
}

// CachedSpan is a span of the cached file; Foreign spans point elsewhere
// (prelude, empty) and are restored as zero spans.
type CachedSpan struct {
	Start, End uint32
	Foreign    bool
}

// OpenDiskCache opens (creating if needed) $XDG_CACHE_HOME/<app>, falling
// back to ~/.cache/<app>.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key CacheKey) string {
	hexKey := key.String()
	return filepath.Join(c.dir, "diag", hexKey[:2], hexKey+".mp")
}

// Put writes payload atomically through a temp file and rename.
func (c *DiskCache) Put(key CacheKey, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the payload for key. A missing entry or one written by another
// schema reports false without error.
func (c *DiskCache) Get(key CacheKey, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer f.Close()

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if payload.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	*out = payload
	return true, nil
}

// Clear removes every cached entry.
func (c *DiskCache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "diag"))
}

// EncodePayload converts a pipeline result into its cached form.
func EncodePayload(res *DiagnoseResult) *DiskPayload {
	p := &DiskPayload{
		Path:      res.File.Path,
		StoppedAt: string(res.StoppedAt),
		Aborted:   res.Abort != nil,
	}
	for _, d := range res.Bag.Items() {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Span:     cacheSpan(res.File.ID, d.Primary),
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Span: cacheSpan(res.File.ID, n.Span), Msg: n.Msg})
		}
		p.Diagnostics = append(p.Diagnostics, cd)
	}
	return p
}

func cacheSpan(file source.FileID, sp source.Span) CachedSpan {
	if sp.File != file {
		return CachedSpan{Foreign: true}
	}
	return CachedSpan{Start: sp.Start, End: sp.End}
}

// DecodePayload rebuilds a result for file from its cached form. Only the
// bag and the stop information are restored.
func DecodePayload(fs *source.FileSet, file *source.File, p *DiskPayload, maxDiagnostics int) *DiagnoseResult {
	res := &DiagnoseResult{
		FileSet:   fs,
		File:      file,
		Bag:       diag.NewBag(maxDiagnostics),
		StoppedAt: buildpipeline.Stage(p.StoppedAt),
	}
	for _, cd := range p.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  restoreSpan(file.ID, cd.Span),
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: restoreSpan(file.ID, n.Span), Msg: n.Msg})
		}
		res.Bag.Add(d)
		// the aborting error is the last one reported
		if p.Aborted && d.Severity >= diag.SevError {
			res.Abort = &diag.Error{Diagnostic: d}
		}
	}
	return res
}

func restoreSpan(file source.FileID, sp CachedSpan) source.Span {
	if sp.Foreign {
		return source.Span{}
	}
	return source.Span{File: file, Start: sp.Start, End: sp.End}
}
