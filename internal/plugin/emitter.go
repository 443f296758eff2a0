package plugin

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"

	"companionforge/internal/formid"
	"companionforge/internal/record"
)

// Record flags.
const (
	flagMaster            uint32 = 1 << 0
	flagInitiallyDisabled uint32 = 1 << 11
	flagLight             uint32 = 1 << 9
)

// Condition function indices understood by the engine.
var functionIndex = map[record.Function]uint16{
	record.FuncGetValue:       14,
	record.FuncGetStageDone:   59,
	record.FuncGetInFaction:   71,
	record.FuncGetGlobalValue: 74,
	record.FuncGetIsAliasRef:  566,
}

// slotSignatures names the response slots of a dialogue action in slot order.
var slotSignatures = [record.SlotCount]string{"PTOP", "NTOP", "NETP", "QTOP", "NPOT", "NNGT", "NNUT", "NQUT"}

type emitter struct {
	pkg     *record.Package
	masters []string
	index   map[string]uint32
	enc     *encoding.Encoder
	count   uint32
	err     error
}

func newEmitter(pkg *record.Package, masters []string) *emitter {
	e := &emitter{
		pkg:     pkg,
		masters: masters,
		index:   make(map[string]uint32, len(masters)+1),
		enc:     newEncoder(),
	}
	for i, m := range masters {
		e.index[strings.ToLower(m)] = uint32(i)
	}
	e.index[strings.ToLower(pkg.Name)] = uint32(len(masters))
	return e
}

func (e *emitter) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

// form maps an identifier to its file form id.
func (e *emitter) form(id formid.ID) uint32 {
	if id.IsZero() {
		return 0
	}
	idx, ok := e.index[strings.ToLower(id.Plugin)]
	if !ok {
		e.fail(fmt.Errorf("identifier %s belongs to %s which is not a master", id, id.Plugin))
		return 0
	}
	return idx<<24 | id.Local&0xFFFFFF
}

func (e *emitter) record(sig string, flags uint32, id formid.ID) *rec {
	e.count++
	return &rec{sig: sig, flags: flags, id: e.form(id), enc: e.enc}
}

func (e *emitter) done(r *rec) []byte {
	if r.err != nil {
		e.fail(fmt.Errorf("%s %08X: %w", r.sig, r.id, r.err))
	}
	return r.bytes()
}

func (e *emitter) group(label uint32, kind int32, contents []byte) []byte {
	e.count++
	return group(label, kind, contents)
}

func (e *emitter) header(author string, nextObject uint32) []byte {
	var flags uint32
	switch {
	case strings.HasSuffix(strings.ToLower(e.pkg.Name), ".esm"):
		flags = flagMaster
	case strings.HasSuffix(strings.ToLower(e.pkg.Name), ".esl"):
		flags = flagLight
	}
	r := &rec{sig: "TES4", flags: flags, enc: e.enc}
	r.add("HEDR", r.data().f32(1.0).u32(e.count).u32(nextObject))
	if author != "" {
		r.zstring("CNAM", author)
	}
	for _, m := range e.masters {
		r.zstring("MAST", m)
		r.add("DATA", r.data().u32(0).u32(0))
	}
	return e.done(r)
}

func (e *emitter) conditions(r *rec, conds []record.Condition) {
	for _, c := range conds {
		fn, ok := functionIndex[c.Function]
		if !ok {
			e.fail(fmt.Errorf("condition %s has no function index", c))
			continue
		}
		op := uint8(c.Op) << 5
		if c.Or {
			op |= 0x01
		}
		var p1, p2 uint32
		switch {
		case c.Function == record.FuncGetStageDone:
			p1, p2 = e.form(c.Record), uint32(c.Param)
		case !c.Record.IsZero():
			p1 = e.form(c.Record)
		default:
			p1 = uint32(c.Param)
		}
		r.add("CTDA", r.data().
			u8(op).pad(3).
			f32(c.Value).
			u16(fn).pad(2).
			u32(p1).u32(p2).
			u32(0).u32(0).i32(-1))
	}
}

// vmad writes the script attachment of a binding. Quest bindings with
// fragments also carry the stage fragment table.
func (e *emitter) vmad(r *rec, b *record.ScriptBinding, quest bool) {
	if b == nil {
		return
	}
	d := r.data().i16(6).i16(2).u16(1)
	d.wstring(b.Schema.Script).u8(0).u16(uint16(len(b.Entries)))
	for _, entry := range b.Entries {
		alias := int16(-1)
		if entry.Target.Alias != record.NoAlias {
			alias = int16(entry.Target.Alias)
		}
		d.wstring(string(entry.Key)).u8(1).u8(1)
		d.u16(0).i16(alias).u32(e.form(entry.Target.Record))
	}
	if quest && len(b.Fragments) > 0 {
		d.u8(3).u16(uint16(len(b.Fragments))).wstring(b.Schema.Script)
		for _, f := range b.Fragments {
			d.u16(uint16(f.Stage)).i16(0).i32(0).u8(1)
			d.wstring(b.Schema.Script).wstring(f.Name)
		}
		d.u16(0)
	}
	r.add("VMAD", d)
}

func (e *emitter) actor(a *record.Actor) []byte {
	r := e.record("NPC_", 0, a.ID())
	r.zstring("EDID", a.EditorID())
	e.vmad(r, a.Script, false)
	r.add("ACBS", r.data().u32(uint32(a.Flags)).u16(1).u16(1).u16(0).i16(35))
	for _, f := range a.Factions {
		r.add("SNAM", r.data().u32(e.form(f.Faction)).u8(uint8(f.Rank)).pad(3))
	}
	r.form("VTCK", e.form(a.Voice))
	r.form("RNAM", e.form(a.Race))
	if len(a.Properties) > 0 {
		d := r.data()
		for _, p := range a.Properties {
			d.u32(e.form(p.ActorValue)).f32(p.Value)
		}
		r.add("PRPS", d)
	}
	if a.Name != "" {
		r.zstring("FULL", a.Name)
	}
	for _, hp := range a.HeadParts {
		r.form("PNAM", e.form(hp))
	}
	r.form("CNAM", e.form(a.Class))
	r.form("ZNAM", e.form(a.CombatStyle))
	return e.done(r)
}

func (e *emitter) location(l *record.Location) []byte {
	r := e.record("LCTN", 0, l.ID())
	r.zstring("EDID", l.EditorID())
	if l.Name != "" {
		r.zstring("FULL", l.Name)
	}
	return e.done(r)
}

func (e *emitter) cell(c *record.Cell) []byte {
	r := e.record("CELL", 0, c.ID())
	r.zstring("EDID", c.EditorID())
	if c.Name != "" {
		r.zstring("FULL", c.Name)
	}
	var flags uint16
	if c.Interior {
		flags |= 0x1
	}
	r.add("DATA", r.data().u16(flags))
	r.form("XLCN", e.form(c.Location))
	out := e.done(r)

	if len(c.Placed) == 0 {
		return out
	}
	var temporary []byte
	for _, p := range c.Placed {
		temporary = append(temporary, e.placed(p)...)
	}
	cellLabel := e.form(c.ID())
	children := e.group(cellLabel, groupCellTemporary, temporary)
	return append(out, e.group(cellLabel, groupCellChildren, children)...)
}

func (e *emitter) placed(p *record.Placed) []byte {
	sig := "REFR"
	if p.Actor {
		sig = "ACHR"
	}
	var flags uint32
	if p.InitiallyDisabled {
		flags |= flagInitiallyDisabled
	}
	r := e.record(sig, flags, p.ID())
	if p.EditorID() != "" {
		r.zstring("EDID", p.EditorID())
	}
	r.form("NAME", e.form(p.Base))
	return e.done(r)
}

func (e *emitter) quest(q *record.Quest) []byte {
	r := e.record("QUST", 0, q.ID())
	r.zstring("EDID", q.EditorID())
	e.vmad(r, q.Script, true)
	if q.Name != "" {
		r.zstring("FULL", q.Name)
	}
	r.add("DNAM", r.data().u16(uint16(q.Flags)).u8(uint8(q.Priority)).u8(0).u32(0).u32(0))
	e.conditions(r, q.Conditions)
	for _, s := range q.Stages {
		r.add("INDX", r.data().u16(uint16(s.Index)).u8(0).u8(0))
		for _, entry := range s.LogEntries {
			r.add("QSDT", r.data().u8(0))
			e.conditions(r, entry.Conditions)
			r.zstring("CNAM", entry.Note)
		}
	}
	next := 0
	for _, a := range q.Aliases {
		if a.ID >= next {
			next = a.ID + 1
		}
	}
	r.add("ANAM", r.data().u32(uint32(next)))
	for _, a := range q.Aliases {
		r.add("ALST", r.data().u32(uint32(a.ID)))
		r.zstring("ALID", a.Name)
		r.add("FNAM", r.data().u32(uint32(a.Flags)))
		r.form("ALUA", e.form(a.Actor))
		r.empty("ALED")
	}
	return e.done(r)
}

func (e *emitter) scene(s *record.Scene) []byte {
	r := e.record("SCEN", 0, s.ID())
	r.zstring("EDID", s.EditorID())
	r.add("FNAM", r.data().u32(s.Flags))
	for _, p := range s.Phases {
		r.empty("HNAM")
		r.zstring("NAM0", p.Name)
		r.add("SCQS", r.data().i16(record.NoStage).i16(int16(p.CompleteStage)))
		r.empty("HNAM")
	}
	for _, a := range s.Actors {
		r.add("ALID", r.data().u32(uint32(a.Alias)))
		r.add("LNAM", r.data().u32(uint32(a.Flags)))
		r.add("DNAM", r.data().u32(0))
	}
	for _, a := range s.Actions {
		r.add("ANAM", r.data().u16(3))
		r.add("ALID", r.data().u32(uint32(a.Alias)))
		r.add("INAM", r.data().u32(uint32(a.Index)))
		r.add("FNAM", r.data().u32(uint32(a.Flags)))
		r.add("SNAM", r.data().u32(uint32(a.StartPhase)))
		r.add("ENAM", r.data().u32(uint32(a.EndPhase)))
		for slot, topic := range a.Responses {
			r.form(slotSignatures[slot], e.form(topic))
		}
		r.empty("ANAM")
	}
	r.form("PNAM", e.form(s.Quest))
	return e.done(r)
}

func (e *emitter) topic(t *record.Topic) []byte {
	r := e.record("DIAL", 0, t.ID())
	r.zstring("EDID", t.EditorID())
	r.add("PNAM", r.data().f32(float32(t.Priority)))
	r.form("BNAM", e.form(t.Branch))
	r.form("QNAM", e.form(t.Quest))
	r.add("DATA", r.data().u8(0).u8(uint8(t.Category)).u16(uint16(t.Subtype)))
	r.add("SNAM", &data{b: []byte(t.Subtype.Code())})
	r.add("TIFC", r.data().u32(uint32(len(t.Groups))))
	out := e.done(r)

	if len(t.Groups) == 0 {
		return out
	}
	var infos []byte
	for _, g := range t.Groups {
		infos = append(infos, e.info(g)...)
	}
	return append(out, e.group(e.form(t.ID()), groupTopicChildren, infos)...)
}

func (e *emitter) info(g *record.ResponseGroup) []byte {
	r := e.record("INFO", 0, g.ID())
	if g.EditorID() != "" {
		r.zstring("EDID", g.EditorID())
	}
	r.add("ENAM", r.data().u32(uint32(g.Flags)))
	r.form("TSCE", e.form(g.StartScene))
	if g.StartPhase != "" {
		r.zstring("NAM0", g.StartPhase)
	}
	for i, text := range g.Responses {
		r.add("TRDA", r.data().u32(0).u32(50).u8(uint8(i+1)).pad(3))
		r.zstring("NAM1", text)
		r.zstring("NAM2", "")
		r.zstring("NAM3", "")
	}
	e.conditions(r, g.Conditions)
	if g.Prompt != "" {
		r.zstring("RNAM", g.Prompt)
	}
	return e.done(r)
}
