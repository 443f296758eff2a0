package plugin

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Record header version written for every record.
const formVersion = 131

// Group types.
const (
	groupTop           int32 = 0
	groupTopicChildren int32 = 7
	groupCellChildren  int32 = 6
	groupCellTemporary int32 = 9
)

var le = binary.LittleEndian

// data accumulates the payload of one subrecord.
type data struct {
	b   []byte
	enc *encoding.Encoder
	err error
}

func (d *data) u8(v uint8) *data   { d.b = append(d.b, v); return d }
func (d *data) u16(v uint16) *data { d.b = le.AppendUint16(d.b, v); return d }
func (d *data) i16(v int16) *data  { return d.u16(uint16(v)) }
func (d *data) u32(v uint32) *data { d.b = le.AppendUint32(d.b, v); return d }
func (d *data) i32(v int32) *data  { return d.u32(uint32(v)) }
func (d *data) f32(v float32) *data {
	return d.u32(math.Float32bits(v))
}
func (d *data) pad(n int) *data { d.b = append(d.b, make([]byte, n)...); return d }

func (d *data) text(s string) []byte {
	out, err := d.enc.Bytes([]byte(norm.NFC.String(s)))
	if err != nil && d.err == nil {
		d.err = fmt.Errorf("encode %q: %w", s, err)
	}
	return out
}

// zstring appends a NUL-terminated Windows-1252 string.
func (d *data) zstring(s string) *data {
	d.b = append(d.b, d.text(s)...)
	d.b = append(d.b, 0)
	return d
}

// wstring appends a string prefixed with its uint16 length.
func (d *data) wstring(s string) *data {
	t := d.text(s)
	d.u16(uint16(len(t)))
	d.b = append(d.b, t...)
	return d
}

// rec accumulates the subrecords of one record.
type rec struct {
	sig   string
	flags uint32
	id    uint32
	body  bytes.Buffer
	enc   *encoding.Encoder
	err   error
}

func newEncoder() *encoding.Encoder {
	return charmap.Windows1252.NewEncoder()
}

func (r *rec) data() *data {
	return &data{enc: r.enc}
}

// add appends a subrecord. Payloads over 64 KiB are preceded by an XXXX
// subrecord carrying the real size.
func (r *rec) add(sig string, d *data) {
	if d.err != nil && r.err == nil {
		r.err = d.err
	}
	if len(d.b) > math.MaxUint16 {
		r.body.WriteString("XXXX")
		_ = binary.Write(&r.body, le, uint16(4))
		_ = binary.Write(&r.body, le, uint32(len(d.b)))
		r.body.WriteString(sig)
		_ = binary.Write(&r.body, le, uint16(0))
	} else {
		r.body.WriteString(sig)
		_ = binary.Write(&r.body, le, uint16(len(d.b)))
	}
	r.body.Write(d.b)
}

func (r *rec) zstring(sig, s string) {
	r.add(sig, r.data().zstring(s))
}

func (r *rec) form(sig string, id uint32) {
	if id == 0 {
		return
	}
	r.add(sig, r.data().u32(id))
}

func (r *rec) empty(sig string) {
	r.add(sig, r.data())
}

// bytes returns the 24-byte header followed by the subrecords.
func (r *rec) bytes() []byte {
	out := make([]byte, 0, 24+r.body.Len())
	out = append(out, r.sig...)
	out = le.AppendUint32(out, uint32(r.body.Len()))
	out = le.AppendUint32(out, r.flags)
	out = le.AppendUint32(out, r.id)
	out = le.AppendUint32(out, 0)
	out = le.AppendUint16(out, formVersion)
	out = le.AppendUint16(out, 0)
	return append(out, r.body.Bytes()...)
}

// group wraps contents in a GRUP whose size includes its own header.
func group(label uint32, kind int32, contents []byte) []byte {
	out := make([]byte, 0, 24+len(contents))
	out = append(out, "GRUP"...)
	out = le.AppendUint32(out, uint32(24+len(contents)))
	out = le.AppendUint32(out, label)
	out = le.AppendUint32(out, uint32(kind))
	out = le.AppendUint32(out, 0)
	out = le.AppendUint16(out, formVersion)
	out = le.AppendUint16(out, 0)
	return append(out, contents...)
}

// label packs a four-character signature into a group label.
func label(sig string) uint32 {
	return le.Uint32([]byte(sig))
}
