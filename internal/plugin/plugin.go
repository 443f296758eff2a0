package plugin

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"companionforge/internal/faults"
	"companionforge/internal/fileutil"
	"companionforge/internal/formid"
	"companionforge/internal/record"
)

// maxMasters leaves room for the package's own index in the form id high byte.
const maxMasters = 0xFE

// Option adjusts emission.
type Option func(*options)

type options struct {
	author string
}

// WithAuthor sets the author written into the file header.
func WithAuthor(author string) Option {
	return func(o *options) {
		o.author = author
	}
}

// topLevel lists the record kinds in file order.
var topLevel = []record.Kind{
	record.KindActor,
	record.KindLocation,
	record.KindCell,
	record.KindQuest,
	record.KindScene,
	record.KindTopic,
}

// Encode serializes pkg. The package must be sealed.
func Encode(ctx context.Context, pkg *record.Package, policy MastersPolicy, opts ...Option) ([]byte, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if pkg == nil || !pkg.Registry.Sealed() {
		return nil, faults.Wrap(faults.ErrEmit, "emit", "encode", "package must be sealed before emission", nil)
	}
	if policy == nil {
		policy = Alphabetical()
	}
	masters := policy.Order(pkg.Masters())
	if len(masters) > maxMasters {
		return nil, faults.Wrap(faults.ErrEmit, "emit", "encode",
			fmt.Sprintf("%d masters exceed the limit of %d", len(masters), maxMasters), nil)
	}

	e := newEmitter(pkg, masters)
	byKind := make(map[record.Kind][]record.Record)
	var next uint32 = formid.FirstLocal
	for _, rec := range pkg.Owned() {
		byKind[rec.Kind()] = append(byKind[rec.Kind()], rec)
		if rec.ID().Local >= next {
			next = rec.ID().Local + 1
		}
		if parent, ok := rec.(record.Parent); ok {
			for _, child := range parent.Children() {
				if child.ID().Local >= next {
					next = child.ID().Local + 1
				}
			}
		}
	}

	var body bytes.Buffer
	for _, kind := range topLevel {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records := byKind[kind]
		if len(records) == 0 {
			continue
		}
		var contents []byte
		for _, rec := range records {
			contents = append(contents, e.encode(rec)...)
		}
		body.Write(e.group(label(kind.Signature()), groupTop, contents))
	}
	header := e.header(o.author, next)
	if e.err != nil {
		return nil, faults.Wrap(faults.ErrEmit, "emit", "encode", pkg.Name, e.err)
	}
	return append(header, body.Bytes()...), nil
}

func (e *emitter) encode(rec record.Record) []byte {
	switch r := rec.(type) {
	case *record.Actor:
		return e.actor(r)
	case *record.Location:
		return e.location(r)
	case *record.Cell:
		return e.cell(r)
	case *record.Quest:
		return e.quest(r)
	case *record.Scene:
		return e.scene(r)
	case *record.Topic:
		return e.topic(r)
	default:
		e.fail(fmt.Errorf("%s %s has no encoding", rec.Kind(), rec.EditorID()))
		return nil
	}
}

// Write serializes pkg to w.
func Write(ctx context.Context, w io.Writer, pkg *record.Package, policy MastersPolicy, opts ...Option) error {
	payload, err := Encode(ctx, pkg, policy, opts...)
	if err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return faults.Wrap(faults.ErrEmit, "emit", "write", pkg.Name, err)
	}
	return nil
}

// WriteFile serializes pkg to path. The file is replaced atomically while
// <path>.lock is held; a failed write leaves any previous file in place.
func WriteFile(ctx context.Context, path string, pkg *record.Package, policy MastersPolicy, opts ...Option) (fileutil.Written, error) {
	payload, err := Encode(ctx, pkg, policy, opts...)
	if err != nil {
		return fileutil.Written{}, err
	}
	written, err := fileutil.WriteFileLocked(path, payload, 0o644)
	if err != nil {
		return fileutil.Written{}, faults.Wrap(faults.ErrEmit, "emit", "write file", path, err)
	}
	return written, nil
}
